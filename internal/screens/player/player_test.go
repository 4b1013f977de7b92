package player

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/preflight/internal/checklist"
	"github.com/abhisek/preflight/internal/playback"
	"github.com/abhisek/preflight/internal/router"
	"github.com/abhisek/preflight/internal/screens/debrief"
	"github.com/abhisek/preflight/internal/screens/sections"
)

func item(id, action string) *checklist.ItemBlock {
	return &checklist.ItemBlock{ID: id, Item: &checklist.Item{ID: id, Title: "Check " + id, Action: action}}
}

// testTemplate: Cockpit (c1, c2, Overhead{c3}), Engines (e1).
func testTemplate() *checklist.Template {
	return &checklist.Template{ID: "t", Name: "B737 Before Start", Blocks: []checklist.Block{
		&checklist.SectionBlock{ID: "S1", Section: &checklist.Section{ID: "S1", Title: "Cockpit", Blocks: []checklist.Block{
			item("c1", "on"),
			item("c2", "set"),
			&checklist.SubsectionBlock{ID: "SS1", Subsection: &checklist.Subsection{ID: "SS1", Title: "Overhead", Blocks: []checklist.Block{
				item("c3", "auto"),
			}}},
		}}},
		&checklist.SectionBlock{ID: "S2", Section: &checklist.Section{ID: "S2", Title: "Engines", Blocks: []checklist.Block{
			item("e1", "start"),
		}}},
	}}
}

func newTestScreen() (*PlayerScreen, *playback.Player) {
	p := playback.NewPlayer()
	p.Load(testTemplate())
	return New(p), p
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func send(s *PlayerScreen, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = s.Update(m)
	}
	return cmd
}

func TestPlayerScreen_Title(t *testing.T) {
	s, _ := newTestScreen()
	if s.Title() != "B737 Before Start" {
		t.Errorf("Title = %q, want template name", s.Title())
	}
	if New(playback.NewPlayer()).Title() != "Checklist" {
		t.Error("expected fallback title without a template")
	}
}

func TestPlayerScreen_Navigation(t *testing.T) {
	s, p := newTestScreen()

	send(s, tea.KeyPressMsg{Code: tea.KeyRight}, keyPress('l'))
	if p.State().Cursor != 2 {
		t.Errorf("cursor = %d after two nexts, want 2", p.State().Cursor)
	}
	send(s, tea.KeyPressMsg{Code: tea.KeyLeft})
	if p.State().Cursor != 1 {
		t.Errorf("cursor = %d after prev, want 1", p.State().Cursor)
	}
	send(s, keyPress('h'), keyPress('h'))
	if p.State().Cursor != 0 {
		t.Errorf("cursor = %d, want 0 at the start", p.State().Cursor)
	}
}

func TestPlayerScreen_CheckSkipToggle(t *testing.T) {
	s, p := newTestScreen()

	send(s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if p.State().StatusOf("c1") != playback.StatusDone || p.State().Cursor != 1 {
		t.Errorf("enter should check c1 and advance, got %v at %d", p.State().StatusOf("c1"), p.State().Cursor)
	}

	send(s, keyPress('s'))
	if p.State().StatusOf("c2") != playback.StatusSkipped || p.State().Cursor != 2 {
		t.Errorf("s should skip c2 and advance, got %v at %d", p.State().StatusOf("c2"), p.State().Cursor)
	}

	send(s, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if p.State().StatusOf("c3") != playback.StatusDone {
		t.Errorf("space should mark c3 done, got %v", p.State().StatusOf("c3"))
	}
	if p.State().Cursor != 2 {
		t.Errorf("space must not move the cursor, got %d", p.State().Cursor)
	}
	send(s, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if p.State().StatusOf("c3") != playback.StatusPending {
		t.Errorf("second space should clear c3, got %v", p.State().StatusOf("c3"))
	}
}

func TestPlayerScreen_PauseToggle(t *testing.T) {
	s, p := newTestScreen()
	send(s, keyPress('p'))
	if !p.State().Paused {
		t.Fatal("expected paused after p")
	}
	if !strings.Contains(s.Status(), "PAUSED") {
		t.Errorf("status %q should mention PAUSED", s.Status())
	}
	if !strings.Contains(s.View(100, 40), "PAUSED") {
		t.Error("view should show the paused badge")
	}

	// Navigation keeps working while paused.
	send(s, tea.KeyPressMsg{Code: tea.KeyRight})
	if p.State().Cursor != 1 {
		t.Errorf("cursor = %d, want 1", p.State().Cursor)
	}

	send(s, keyPress('p'))
	if p.State().Paused {
		t.Error("expected resumed after second p")
	}
}

func TestPlayerScreen_TabOpensSections(t *testing.T) {
	s, _ := newTestScreen()
	cmd := send(s, tea.KeyPressMsg{Code: tea.KeyTab})
	if cmd == nil {
		t.Fatal("expected a command from tab")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*sections.SectionsScreen); !ok {
		t.Errorf("expected sections screen, got %T", push.Screen)
	}
}

func TestPlayerScreen_FinishOnLastItem(t *testing.T) {
	s, p := newTestScreen()
	p.JumpTo(3)

	cmd := send(s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected debrief after checking the last item")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*debrief.DebriefScreen); !ok {
		t.Errorf("expected debrief screen, got %T", push.Screen)
	}
	if p.State().StatusOf("e1") != playback.StatusDone {
		t.Error("last item should be marked done before the debrief")
	}
}

func TestPlayerScreen_EnterMidSequenceDoesNotFinish(t *testing.T) {
	s, _ := newTestScreen()
	if cmd := send(s, tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter before the last item should not produce a command")
	}
}

func TestPlayerScreen_JumpPrompt(t *testing.T) {
	s, p := newTestScreen()

	send(s, keyPress(':'))
	if !s.CapturingInput() {
		t.Fatal("expected jump prompt to capture input")
	}

	send(s, keyPress('3'), tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.CapturingInput() {
		t.Error("prompt should close after a valid number")
	}
	if p.State().Cursor != 2 {
		t.Errorf("cursor = %d after jumping to item 3, want 2", p.State().Cursor)
	}
}

func TestPlayerScreen_JumpClamps(t *testing.T) {
	s, p := newTestScreen()
	send(s, keyPress(':'), keyPress('9'), keyPress('9'), tea.KeyPressMsg{Code: tea.KeyEnter})
	if p.State().Cursor != 3 {
		t.Errorf("cursor = %d, want clamp to last item 3", p.State().Cursor)
	}
}

func TestPlayerScreen_JumpEmptyInputStaysOpen(t *testing.T) {
	s, p := newTestScreen()
	send(s, keyPress(':'), tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.CapturingInput() {
		t.Error("prompt should stay open on empty input")
	}
	if p.State().Cursor != 0 {
		t.Errorf("cursor moved to %d", p.State().Cursor)
	}

	send(s, tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.CapturingInput() {
		t.Error("esc should close the prompt")
	}
}

func TestPlayerScreen_JumpIgnoresLetters(t *testing.T) {
	s, _ := newTestScreen()
	send(s, keyPress(':'), keyPress('x'))
	if s.jump.Value() != "" {
		t.Errorf("non-digit reached the prompt: %q", s.jump.Value())
	}
}

func TestPlayerScreen_View(t *testing.T) {
	s, _ := newTestScreen()
	s.player.JumpTo(2)

	view := s.View(100, 40)
	for _, want := range []string{"COCKPIT", "Overhead", "Check c3", "AUTO", "Item 3 of 4"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPlayerScreen_ViewWithoutItems(t *testing.T) {
	p := playback.NewPlayer()
	s := New(p)
	if !strings.Contains(s.View(80, 24), "No checklist loaded") {
		t.Error("expected notice with nothing loaded")
	}

	p.Load(&checklist.Template{ID: "e", Name: "empty"})
	if !strings.Contains(s.View(80, 24), "no items") {
		t.Error("expected notice for an empty template")
	}
	if cmd := send(s, keyPress(':')); cmd != nil || s.CapturingInput() {
		t.Error("jump prompt should not open without items")
	}
}

func TestPlayerScreen_Status(t *testing.T) {
	s, p := newTestScreen()
	p.CheckAndAdvance()
	if got := strings.TrimSpace(s.Status()); got != "1/4 done" {
		t.Errorf("Status = %q, want 1/4 done", got)
	}
}
