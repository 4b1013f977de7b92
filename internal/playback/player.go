package playback

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/preflight/internal/checklist"
)

// Player owns the playback state of one template and publishes a new
// snapshot after every change. Operations never fail: invalid requests
// are silently ignored and publish nothing.
type Player struct {
	mu    sync.Mutex
	state *State
	hub   *Broadcaster[*State]
}

// NewPlayer returns a player with nothing loaded.
func NewPlayer() *Player {
	return &Player{hub: NewBroadcaster[*State](nil)}
}

// State returns the current snapshot, nil when nothing is loaded.
func (p *Player) State() *State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribe calls fn with the current snapshot and every later one.
func (p *Player) Subscribe(fn func(*State)) (cancel func()) {
	return p.hub.Subscribe(fn)
}

// Watch streams snapshots until ctx is done. Slow readers only see the
// latest snapshot.
func (p *Player) Watch(ctx context.Context) <-chan *State {
	return p.hub.Watch(ctx)
}

// Checkpoint is the part of a session that survives a restart.
type Checkpoint struct {
	Cursor   int
	Statuses Statuses
	Paused   bool
}

// Load flattens t and starts a fresh session at the first item.
func (p *Player) Load(t *checklist.Template) {
	p.Restore(t, Checkpoint{})
}

// Restore loads t and reapplies a checkpoint. The cursor is clamped and
// statuses for ids no longer in the template are dropped.
func (p *Player) Restore(t *checklist.Template, cp Checkpoint) {
	flat := Flatten(t)
	next := &State{
		Flat:      flat,
		Index:     BuildIndex(flat),
		Cursor:    clamp(cp.Cursor, flat.Total()),
		Statuses:  Statuses{},
		Paused:    cp.Paused,
		SessionID: uuid.NewString(),
	}
	if len(cp.Statuses) > 0 {
		known := make(map[string]bool, len(flat.Items))
		for _, ref := range flat.Items {
			known[ref.ID()] = true
		}
		for id, st := range cp.Statuses {
			if known[id] && st != StatusPending {
				next.Statuses[id] = st
			}
		}
	}

	p.mu.Lock()
	p.commit(next)
	p.mu.Unlock()
	p.hub.flush()
}

// Reset drops the loaded template.
func (p *Player) Reset() {
	p.mu.Lock()
	if p.state == nil {
		p.mu.Unlock()
		return
	}
	p.commit(nil)
	p.mu.Unlock()
	p.hub.flush()
}

// Next moves to the following item, if any.
func (p *Player) Next() {
	p.update(func(s *State) *State {
		if s.Cursor >= s.Total()-1 {
			return nil
		}
		n := s.with()
		n.Cursor++
		return n
	})
}

// Prev moves to the preceding item, if any.
func (p *Player) Prev() {
	p.update(func(s *State) *State {
		if s.Cursor <= 0 {
			return nil
		}
		n := s.with()
		n.Cursor--
		return n
	})
}

// JumpTo moves the cursor to global index i, clamped into range.
func (p *Player) JumpTo(i int) {
	p.update(func(s *State) *State {
		if s.Total() == 0 {
			return nil
		}
		return s.moveTo(clamp(i, s.Total()))
	})
}

// JumpToSection moves the cursor to the first item of section i. An empty
// section resolves to the next section that has items.
func (p *Player) JumpToSection(i int) {
	p.update(func(s *State) *State {
		f := s.Flat
		if i < 0 || i >= f.SectionCount() {
			return nil
		}
		for sec := i; sec < f.SectionCount(); sec++ {
			if f.SectionStartsAt[sec] < f.SectionEnd(sec) {
				return s.moveTo(f.SectionStartsAt[sec])
			}
		}
		return nil
	})
}

// ToggleCurrentDone flips the current item between done and pending.
func (p *Player) ToggleCurrentDone() {
	p.update(func(s *State) *State {
		ref, ok := s.Current()
		if !ok {
			return nil
		}
		return s.withStatus(ref.ID(), s.Statuses.Get(ref.ID()).toggled())
	})
}

// ToggleByID flips the item with the given id regardless of the cursor.
func (p *Player) ToggleByID(id string) {
	p.update(func(s *State) *State {
		return s.withStatus(id, s.Statuses.Get(id).toggled())
	})
}

// SetStatus sets the status of id.
func (p *Player) SetStatus(id string, status ItemStatus) {
	p.update(func(s *State) *State {
		return s.withStatus(id, status)
	})
}

// CheckAndAdvance marks the current item done and moves on.
func (p *Player) CheckAndAdvance() {
	p.markAndAdvance(StatusDone)
}

// SkipAndAdvance marks the current item skipped and moves on.
func (p *Player) SkipAndAdvance() {
	p.markAndAdvance(StatusSkipped)
}

func (p *Player) markAndAdvance(status ItemStatus) {
	p.update(func(s *State) *State {
		ref, ok := s.Current()
		if !ok {
			return nil
		}
		n := s.withStatus(ref.ID(), status)
		if n == nil {
			n = s.with()
		}
		if n.Cursor < n.Total()-1 {
			n.Cursor++
		}
		if n.Cursor == s.Cursor && n.Statuses.Get(ref.ID()) == s.Statuses.Get(ref.ID()) {
			return nil
		}
		return n
	})
}

// Pause marks the session paused.
func (p *Player) Pause() { p.setPaused(func(bool) bool { return true }) }

// Resume clears the paused flag.
func (p *Player) Resume() { p.setPaused(func(bool) bool { return false }) }

// TogglePause flips the paused flag.
func (p *Player) TogglePause() { p.setPaused(func(b bool) bool { return !b }) }

func (p *Player) setPaused(f func(bool) bool) {
	p.update(func(s *State) *State {
		want := f(s.Paused)
		if want == s.Paused {
			return nil
		}
		n := s.with()
		n.Paused = want
		return n
	})
}

// update applies fn to the current state under the lock. fn returns nil for
// a no-op. Listeners are notified after the lock is released.
func (p *Player) update(fn func(*State) *State) {
	p.mu.Lock()
	if p.state == nil {
		p.mu.Unlock()
		return
	}
	next := fn(p.state)
	if next == nil {
		p.mu.Unlock()
		return
	}
	p.commit(next)
	p.mu.Unlock()
	p.hub.flush()
}

// commit installs s as the current snapshot. p.mu must be held so the
// broadcaster sees snapshots in the same order as State.
func (p *Player) commit(s *State) {
	p.state = s
	p.hub.store(s)
}

func (s *State) moveTo(i int) *State {
	if i == s.Cursor {
		return nil
	}
	n := s.with()
	n.Cursor = i
	return n
}

func (s *State) withStatus(id string, status ItemStatus) *State {
	if cur, ok := s.Statuses[id]; ok && cur == status {
		return nil
	}
	n := s.with()
	n.Statuses = s.Statuses.With(id, status)
	return n
}

func clamp(i, total int) int {
	if total == 0 || i < 0 {
		return 0
	}
	if i >= total {
		return total - 1
	}
	return i
}
