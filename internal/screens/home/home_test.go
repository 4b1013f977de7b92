package home

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/preflight/internal/checklist"
	"github.com/abhisek/preflight/internal/playback"
	"github.com/abhisek/preflight/internal/router"
	playerscreen "github.com/abhisek/preflight/internal/screens/player"
	"github.com/abhisek/preflight/internal/store"
)

func item(id string) *checklist.ItemBlock {
	return &checklist.ItemBlock{ID: id, Item: &checklist.Item{ID: id, Title: id}}
}

func testTemplate(id, name string) *checklist.Template {
	return &checklist.Template{ID: id, Name: name, AircraftModel: "A320", Airline: "ACME", Blocks: []checklist.Block{
		&checklist.SectionBlock{ID: id + "-s", Section: &checklist.Section{ID: id + "-s", Title: "Cockpit", Blocks: []checklist.Block{
			item(id + "-1"), item(id + "-2"), item(id + "-3"),
		}}},
	}}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "home.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestHome(t *testing.T, st *store.Store, resume bool) (*HomeScreen, *playback.Player) {
	t.Helper()
	p := playback.NewPlayer()
	h := New(Deps{Templates: st.TemplateRepo(), Progress: st.ProgressRepo(), Player: p, Resume: resume})
	run(h, h.Init())
	return h, p
}

// run executes cmd and feeds its message back into the screen, returning
// the command produced by that update.
func run(h *HomeScreen, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	_, next := h.Update(cmd())
	return next
}

func TestHomeScreen_ListsTemplates(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	for _, tpl := range []*checklist.Template{testTemplate("t1", "Before Start"), testTemplate("t2", "After Landing")} {
		if err := st.TemplateRepo().Save(ctx, tpl); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	h, _ := newTestHome(t, st, true)
	view := h.View(100, 30)
	for _, want := range []string{"Before Start", "After Landing", "A320", "3 items"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.TrimSpace(h.Status()) != "2 templates" {
		t.Errorf("Status = %q", h.Status())
	}
	// Ordered by name.
	if h.Selected() != "t2" {
		t.Errorf("Selected = %q, want t2 first", h.Selected())
	}
}

func TestHomeScreen_EmptyLibrary(t *testing.T) {
	h, _ := newTestHome(t, openStore(t), true)
	if !strings.Contains(h.View(100, 30), "No checklists yet") {
		t.Error("expected empty-library help")
	}
	if _, cmd := h.Update(tea.KeyPressMsg{Code: 'f', Text: "f"}); cmd != nil {
		t.Error("f should do nothing without templates")
	}
}

func TestHomeScreen_LoadingBeforeInit(t *testing.T) {
	h := New(Deps{Player: playback.NewPlayer()})
	if !strings.Contains(h.View(80, 24), "Loading") {
		t.Error("expected loading notice before the list arrives")
	}
	if h.Status() != "" {
		t.Errorf("Status = %q before load", h.Status())
	}
}

func TestHomeScreen_EnterPlays(t *testing.T) {
	st := openStore(t)
	if err := st.TemplateRepo().Save(context.Background(), testTemplate("t1", "Before Start")); err != nil {
		t.Fatalf("save: %v", err)
	}
	h, p := newTestHome(t, st, true)

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from enter")
	}
	push := run(h, cmd)
	if push == nil {
		t.Fatal("expected a push after the template loaded")
	}
	msg, ok := push().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", push())
	}
	if _, ok := msg.Screen.(*playerscreen.PlayerScreen); !ok {
		t.Errorf("expected player screen, got %T", msg.Screen)
	}
	if p.State() == nil || p.State().Flat.Template.ID != "t1" {
		t.Error("player should hold the selected template")
	}
}

func TestHomeScreen_ResumeAndFresh(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	if err := st.TemplateRepo().Save(ctx, testTemplate("t1", "Before Start")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.ProgressRepo().Save(ctx, store.Progress{
		TemplateID: "t1",
		SessionID:  "old",
		Cursor:     2,
		Statuses:   map[string]string{"t1-1": "done"},
	}); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	h, p := newTestHome(t, st, true)
	if !strings.Contains(h.View(100, 30), "1 done") {
		t.Error("menu should show saved progress")
	}

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	run(h, cmd)
	if p.State().Cursor != 2 || p.State().StatusOf("t1-1") != playback.StatusDone {
		t.Errorf("expected resumed state, got cursor %d", p.State().Cursor)
	}

	_, cmd = h.Update(tea.KeyPressMsg{Code: 'f', Text: "f"})
	run(h, cmd)
	if p.State().Cursor != 0 || p.State().StatusOf("t1-1") != playback.StatusPending {
		t.Errorf("f should start fresh, got cursor %d", p.State().Cursor)
	}
}

func TestHomeScreen_NoResume(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	if err := st.TemplateRepo().Save(ctx, testTemplate("t1", "Before Start")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.ProgressRepo().Save(ctx, store.Progress{TemplateID: "t1", SessionID: "old", Cursor: 2}); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	h, p := newTestHome(t, st, false)
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	run(h, cmd)
	if p.State().Cursor != 0 {
		t.Errorf("cursor = %d, want 0 with resume off", p.State().Cursor)
	}
}

func TestHomeScreen_LoadErrorShown(t *testing.T) {
	h := New(Deps{Player: playback.NewPlayer()})
	h.Update(playReadyMsg{err: store.ErrNotFound})
	if !strings.Contains(h.View(100, 30), store.ErrNotFound.Error()) {
		t.Error("expected the error in the view")
	}
}

func TestHomeScreen_Quit(t *testing.T) {
	h, _ := newTestHome(t, openStore(t), true)
	_, cmd := h.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}
