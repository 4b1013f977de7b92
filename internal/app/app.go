package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/preflight/internal/logger"
	"github.com/abhisek/preflight/internal/playback"
	"github.com/abhisek/preflight/internal/router"
	"github.com/abhisek/preflight/internal/screen"
	"github.com/abhisek/preflight/internal/screens/home"
	playerscreen "github.com/abhisek/preflight/internal/screens/player"
	"github.com/abhisek/preflight/internal/screens/welcome"
	"github.com/abhisek/preflight/internal/store"
	"github.com/abhisek/preflight/internal/ui/layout"
)

// Options wires the app to storage and playback.
type Options struct {
	Templates store.TemplateRepo
	Progress  store.ProgressRepo
	Player    *playback.Player
	Logger    *logger.Logger

	// Resume restores saved progress when a template is opened from home.
	Resume bool

	// Splash shows the welcome animation first.
	Splash bool

	// Playing opens the player on top of home. The player must already
	// hold a loaded template.
	Playing bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	log    *logger.Logger
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	if opts.Player == nil {
		opts.Player = playback.NewPlayer()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	homeScreen := home.New(home.Deps{
		Templates: opts.Templates,
		Progress:  opts.Progress,
		Player:    opts.Player,
		Resume:    opts.Resume,
	})

	var r *router.Router
	switch {
	case opts.Playing:
		r = router.New(homeScreen)
		r.Push(playerscreen.New(opts.Player))
	case opts.Splash:
		r = router.New(welcome.New(func() screen.Screen { return homeScreen }))
	default:
		r = router.New(homeScreen)
	}

	return AppModel{
		router: r,
		log:    opts.Logger,
	}
}

func (m AppModel) Init() tea.Cmd {
	// A covered home screen loads its list when the player pops.
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case router.PushScreenMsg:
		m.log.Debug("push screen", "title", msg.Screen.Title(), "depth", m.router.Depth()+1)
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame as a string.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints := hp.KeyHints()
		return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
