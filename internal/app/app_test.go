package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/preflight/internal/checklist"
	"github.com/abhisek/preflight/internal/playback"
	"github.com/abhisek/preflight/internal/router"
	"github.com/abhisek/preflight/internal/screens/debrief"
	"github.com/abhisek/preflight/internal/screens/home"
	playerscreen "github.com/abhisek/preflight/internal/screens/player"
	"github.com/abhisek/preflight/internal/screens/welcome"
)

func loadedPlayer() *playback.Player {
	p := playback.NewPlayer()
	p.Load(&checklist.Template{ID: "t", Name: "Before Start", Blocks: []checklist.Block{
		&checklist.SectionBlock{ID: "S", Section: &checklist.Section{ID: "S", Title: "Cockpit", Blocks: []checklist.Block{
			&checklist.ItemBlock{ID: "a", Item: &checklist.Item{ID: "a", Title: "Battery", Action: "on"}},
			&checklist.ItemBlock{ID: "b", Item: &checklist.Item{ID: "b", Title: "Beacon", Action: "on"}},
		}}},
	}})
	return p
}

func TestNewAppModel_InitialScreen(t *testing.T) {
	m := newAppModel(Options{})
	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Errorf("expected home first, got %T", m.router.Active())
	}

	m = newAppModel(Options{Splash: true})
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Errorf("expected welcome first, got %T", m.router.Active())
	}

	m = newAppModel(Options{Player: loadedPlayer(), Playing: true, Splash: true})
	if _, ok := m.router.Active().(*playerscreen.PlayerScreen); !ok {
		t.Errorf("expected player on top, got %T", m.router.Active())
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, want home under the player", m.router.Depth())
	}
}

func TestAppModel_EscPops(t *testing.T) {
	m := newAppModel(Options{Player: loadedPlayer(), Playing: true})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestAppModel_EscLeftToCapturingScreen(t *testing.T) {
	p := loadedPlayer()
	m := newAppModel(Options{Player: p, Playing: true})
	m.Update(tea.KeyPressMsg{Code: ':', Text: ":"})

	ps := m.router.Active().(*playerscreen.PlayerScreen)
	if !ps.CapturingInput() {
		t.Fatal("expected the jump prompt to be open")
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 2 {
		t.Error("esc must not pop while the prompt is open")
	}
	if ps.CapturingInput() {
		t.Error("esc should have closed the prompt")
	}
}

func TestAppModel_DebriefStacksOnPlayer(t *testing.T) {
	m := newAppModel(Options{Player: loadedPlayer(), Playing: true})

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})
	if cmd == nil {
		t.Fatal("expected a command to open the debrief")
	}
	m.Update(cmd())
	if _, ok := m.router.Active().(*debrief.DebriefScreen); !ok {
		t.Fatalf("expected debrief on top, got %T", m.router.Active())
	}
	if m.router.Depth() != 3 {
		t.Errorf("depth = %d, want debrief above home and player", m.router.Depth())
	}

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	m.Update(cmd())
	if _, ok := m.router.Active().(*playerscreen.PlayerScreen); !ok {
		t.Errorf("esc from the debrief should return to the player, got %T", m.router.Active())
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModel(Options{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestAppModel_ViewFrame(t *testing.T) {
	m := newAppModel(Options{Player: loadedPlayer(), Playing: true})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(AppModel)

	content := m.render()
	for _, want := range []string{"Preflight", "Before Start", "0/2 done", "Battery", "Ctrl+C"} {
		if !strings.Contains(content, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestAppModel_ViewTooSmall(t *testing.T) {
	m := newAppModel(Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m = updated.(AppModel)
	if !strings.Contains(m.render(), "Terminal too small") {
		t.Error("expected the minimum size message")
	}
}
