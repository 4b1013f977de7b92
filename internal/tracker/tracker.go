// Package tracker persists playback activity. It subscribes to a player,
// diffs each snapshot against the previous one and records status events,
// session events and a resumable progress row. Store failures are logged
// and never reach the player.
package tracker

import (
	"context"
	"sync"

	"github.com/abhisek/preflight/internal/logger"
	"github.com/abhisek/preflight/internal/playback"
	"github.com/abhisek/preflight/internal/store"
)

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
	ActionReset = "reset"
)

// Source publishes playback snapshots. *playback.Player satisfies it.
type Source interface {
	Subscribe(fn func(*playback.State)) (cancel func())
}

type Tracker struct {
	source   Source
	events   store.EventRepo
	progress store.ProgressRepo
	log      *logger.Logger

	mu     sync.Mutex
	ctx    context.Context
	active bool
	prev   *playback.State
	cancel func()
}

func New(source Source, events store.EventRepo, progress store.ProgressRepo, log *logger.Logger) *Tracker {
	if log == nil {
		log = logger.Nop()
	}
	return &Tracker{
		source:   source,
		events:   events,
		progress: progress,
		log:      log,
	}
}

// Start subscribes to the source. The current snapshot, if any, is treated
// as the start of a session.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	if t.active {
		t.mu.Unlock()
		return
	}
	t.ctx = ctx
	t.active = true
	t.mu.Unlock()

	cancel := t.source.Subscribe(t.observe)

	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()
}

// Stop unsubscribes and closes the open session with an end event.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return
	}
	t.active = false
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	if t.prev != nil {
		t.sessionEvent(t.prev, ActionEnd)
		t.prev = nil
	}
}

func (t *Tracker) observe(st *playback.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return
	}

	prev := t.prev
	t.prev = st
	if st == prev {
		return
	}

	if st == nil {
		t.sessionEvent(prev, ActionReset)
		return
	}
	if templateID(st) == "" {
		return
	}

	if prev == nil || prev.SessionID != st.SessionID {
		if prev != nil {
			t.sessionEvent(prev, ActionEnd)
		}
		t.sessionEvent(st, ActionStart)
	} else {
		t.statusEvents(prev, st)
	}
	t.saveProgress(st)
}

func (t *Tracker) statusEvents(prev, st *playback.State) {
	for _, ref := range st.Flat.Items {
		id := ref.ID()
		before, after := prev.StatusOf(id), st.StatusOf(id)
		if before == after {
			continue
		}
		err := t.events.AppendStatusEvent(t.ctx, store.StatusEventData{
			SessionID:  st.SessionID,
			TemplateID: templateID(st),
			ItemID:     id,
			Status:     after.String(),
			Cursor:     st.Cursor,
		})
		if err != nil {
			t.log.Warn("record status event failed", "item", id, "error", err)
		}
	}
}

func (t *Tracker) sessionEvent(st *playback.State, action string) {
	if st == nil || templateID(st) == "" {
		return
	}
	sum := playback.Overall(st)
	err := t.events.AppendSessionEvent(t.ctx, store.SessionEventData{
		SessionID:  st.SessionID,
		TemplateID: templateID(st),
		Action:     action,
		Done:       sum.Done,
		Skipped:    sum.Skipped,
		Total:      sum.Total,
	})
	if err != nil {
		t.log.Warn("record session event failed", "action", action, "error", err)
		return
	}
	t.log.Debug("session event", "action", action, "session", st.SessionID, "done", sum.Done, "total", sum.Total)
}

func (t *Tracker) saveProgress(st *playback.State) {
	statuses := make(map[string]string)
	for _, ref := range st.Flat.Items {
		if s := st.StatusOf(ref.ID()); s != playback.StatusPending {
			statuses[ref.ID()] = s.String()
		}
	}
	err := t.progress.Save(t.ctx, store.Progress{
		TemplateID: templateID(st),
		SessionID:  st.SessionID,
		Cursor:     st.Cursor,
		Statuses:   statuses,
		Paused:     st.Paused,
	})
	if err != nil {
		t.log.Warn("save progress failed", "template", templateID(st), "error", err)
	}
}

// Saved converts a stored progress row back into a checkpoint for
// Player.Restore. Unknown status strings are dropped.
func Saved(p *store.Progress) playback.Checkpoint {
	if p == nil {
		return playback.Checkpoint{}
	}
	statuses := make(playback.Statuses, len(p.Statuses))
	for id, raw := range p.Statuses {
		s, err := playback.ParseStatus(raw)
		if err != nil || s == playback.StatusPending {
			continue
		}
		statuses[id] = s
	}
	return playback.Checkpoint{Cursor: p.Cursor, Statuses: statuses, Paused: p.Paused}
}

func templateID(st *playback.State) string {
	if st == nil || st.Flat == nil || st.Flat.Template == nil {
		return ""
	}
	return st.Flat.Template.ID
}
