// Package player is the screen that walks the user through a loaded
// checklist one item at a time.
package player

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/preflight/internal/playback"
	"github.com/abhisek/preflight/internal/router"
	"github.com/abhisek/preflight/internal/screen"
	"github.com/abhisek/preflight/internal/screens/debrief"
	"github.com/abhisek/preflight/internal/screens/sections"
	"github.com/abhisek/preflight/internal/ui/components"
	"github.com/abhisek/preflight/internal/ui/layout"
)

// PlayerScreen drives a playback.Player from the keyboard.
type PlayerScreen struct {
	player  *playback.Player
	jumping bool
	jump    components.ItemNumberInput
}

var _ screen.Screen = (*PlayerScreen)(nil)
var _ screen.KeyHintProvider = (*PlayerScreen)(nil)
var _ screen.StatusProvider = (*PlayerScreen)(nil)
var _ screen.InputCapturer = (*PlayerScreen)(nil)

// New creates a PlayerScreen for an already loaded player.
func New(p *playback.Player) *PlayerScreen {
	return &PlayerScreen{player: p}
}

func (s *PlayerScreen) Init() tea.Cmd {
	return nil
}

func (s *PlayerScreen) Title() string {
	st := s.player.State()
	if st == nil || st.Flat.Template == nil || st.Flat.Template.Name == "" {
		return "Checklist"
	}
	return st.Flat.Template.Name
}

func (s *PlayerScreen) Status() string {
	st := s.player.State()
	if st == nil {
		return ""
	}
	o := playback.Overall(st)
	status := fmt.Sprintf("%d/%d done", o.Done, o.Total)
	if st.Paused {
		status = "PAUSED  " + status
	}
	return status + "  "
}

func (s *PlayerScreen) CapturingInput() bool {
	return s.jumping
}

func (s *PlayerScreen) KeyHints() []layout.KeyHint {
	if s.jumping {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Jump"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Move"},
		{Key: "Enter", Description: "Check"},
		{Key: "Space", Description: "Toggle"},
		{Key: "S", Description: "Skip"},
		{Key: "Tab", Description: "Sections"},
		{Key: ":", Description: "Jump"},
		{Key: "P", Description: "Pause"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *PlayerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.jumping {
		return s.updateJump(msg)
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	p := s.player
	switch kmsg.String() {
	case "right", "l":
		p.Next()
	case "left", "h":
		p.Prev()
	case "space", " ":
		p.ToggleCurrentDone()
	case "enter":
		last := p.State().IsLast()
		p.CheckAndAdvance()
		if last {
			return s, s.finish()
		}
	case "s":
		last := p.State().IsLast()
		p.SkipAndAdvance()
		if last {
			return s, s.finish()
		}
	case "p":
		p.TogglePause()
	case "tab":
		if p.State() == nil {
			return s, nil
		}
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: sections.New(p)}
		}
	case "d":
		return s, s.finish()
	case ":":
		if p.State().Total() == 0 {
			return s, nil
		}
		s.jumping = true
		s.jump = components.NewItemNumberInput(p.State().Total())
		return s, s.jump.Init()
	}
	return s, nil
}

func (s *PlayerScreen) updateJump(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			s.jumping = false
			return s, nil
		case "enter":
			n, ok := s.jump.Item()
			if !ok {
				s.jump.Reject()
				return s, nil
			}
			s.player.JumpTo(n - 1)
			s.jumping = false
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.jump, cmd = s.jump.Update(msg)
	return s, cmd
}

// finish stacks the debrief for the current snapshot on top of the player.
func (s *PlayerScreen) finish() tea.Cmd {
	st := s.player.State()
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: debrief.New(st)}
	}
}
