// Package home is the template library screen.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/preflight/internal/checklist"
	"github.com/abhisek/preflight/internal/playback"
	"github.com/abhisek/preflight/internal/router"
	"github.com/abhisek/preflight/internal/screen"
	playerscreen "github.com/abhisek/preflight/internal/screens/player"
	"github.com/abhisek/preflight/internal/store"
	"github.com/abhisek/preflight/internal/tracker"
	"github.com/abhisek/preflight/internal/ui/components"
	"github.com/abhisek/preflight/internal/ui/layout"
	"github.com/abhisek/preflight/internal/ui/theme"
)

// Deps are the collaborators the home screen needs.
type Deps struct {
	Templates store.TemplateRepo
	Progress  store.ProgressRepo
	Player    *playback.Player

	// Resume restores saved progress when a template is opened.
	Resume bool
}

type templatesLoadedMsg struct {
	infos []store.TemplateInfo
	saved map[string]*store.Progress
	err   error
}

type playReadyMsg struct {
	tpl      *checklist.Template
	progress *store.Progress
	err      error
}

// HomeScreen lists stored templates and opens the selected one.
type HomeScreen struct {
	deps   Deps
	infos  []store.TemplateInfo
	menu   components.Menu
	loaded bool
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	return &HomeScreen{deps: deps}
}

// Init reloads the library. It also runs when the screen is uncovered so
// progress made in the player shows up.
func (h *HomeScreen) Init() tea.Cmd {
	return h.loadTemplates()
}

func (h *HomeScreen) Title() string {
	return "Checklists"
}

func (h *HomeScreen) Status() string {
	if !h.loaded {
		return ""
	}
	return fmt.Sprintf("%d templates  ", len(h.infos))
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if len(h.infos) == 0 {
		return []layout.KeyHint{
			{Key: "Q", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "F", Description: "Start fresh"},
		{Key: "Q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case templatesLoadedMsg:
		return h.handleLoaded(msg)

	case playReadyMsg:
		return h.handlePlayReady(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return h, tea.Quit
		case "f":
			if len(h.infos) == 0 {
				return h, nil
			}
			return h, h.open(h.infos[h.menu.Selected].ID, false)
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) handleLoaded(msg templatesLoadedMsg) (screen.Screen, tea.Cmd) {
	h.loaded = true
	if msg.err != nil {
		h.errMsg = msg.err.Error()
		return h, nil
	}
	h.errMsg = ""

	prev := h.menu.Selected
	h.infos = msg.infos
	items := make([]components.MenuItem, len(msg.infos))
	for i, info := range msg.infos {
		id := info.ID
		items[i] = components.MenuItem{
			Label:  info.Name,
			Detail: describe(info, msg.saved[id]),
			Action: func() tea.Cmd { return h.open(id, h.deps.Resume) },
		}
	}
	h.menu = components.NewMenu(items)
	if prev < len(items) {
		h.menu.Selected = prev
	}
	return h, nil
}

func (h *HomeScreen) handlePlayReady(msg playReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		h.errMsg = msg.err.Error()
		return h, nil
	}
	h.deps.Player.Restore(msg.tpl, tracker.Saved(msg.progress))
	return h, func() tea.Msg {
		return router.PushScreenMsg{Screen: playerscreen.New(h.deps.Player)}
	}
}

// loadTemplates lists templates together with any saved progress.
func (h *HomeScreen) loadTemplates() tea.Cmd {
	repo, progress := h.deps.Templates, h.deps.Progress
	return func() tea.Msg {
		if repo == nil {
			return templatesLoadedMsg{}
		}
		ctx := context.Background()
		infos, err := repo.List(ctx)
		if err != nil {
			return templatesLoadedMsg{err: fmt.Errorf("list templates: %w", err)}
		}
		saved := make(map[string]*store.Progress, len(infos))
		if progress != nil {
			for _, info := range infos {
				if p, err := progress.Get(ctx, info.ID); err == nil && p != nil {
					saved[info.ID] = p
				}
			}
		}
		return templatesLoadedMsg{infos: infos, saved: saved}
	}
}

// open fetches a template and, when resume is set, its saved progress.
func (h *HomeScreen) open(id string, resume bool) tea.Cmd {
	repo, progress := h.deps.Templates, h.deps.Progress
	return func() tea.Msg {
		ctx := context.Background()
		tpl, err := repo.Get(ctx, id)
		if err != nil {
			return playReadyMsg{err: fmt.Errorf("load template: %w", err)}
		}
		msg := playReadyMsg{tpl: tpl}
		if resume && progress != nil {
			msg.progress, err = progress.Get(ctx, id)
			if err != nil {
				return playReadyMsg{err: fmt.Errorf("load progress: %w", err)}
			}
		}
		return msg
	}
}

// describe builds the menu detail column for a template.
func describe(info store.TemplateInfo, saved *store.Progress) string {
	var parts []string
	if info.AircraftModel != "" {
		parts = append(parts, info.AircraftModel)
	}
	if info.Airline != "" {
		parts = append(parts, info.Airline)
	}
	parts = append(parts, fmt.Sprintf("%d items", info.ItemCount))
	if saved != nil {
		done := 0
		for _, st := range saved.Statuses {
			if st == playback.StatusDone.String() {
				done++
			}
		}
		parts = append(parts, fmt.Sprintf("%d done", done))
	}
	return strings.Join(parts, " · ")
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Width(width).Render("Checklist library"))

	switch {
	case !h.loaded:
		sections = append(sections, theme.Subtitle.Width(width).Render("Loading…"))
	case len(h.infos) == 0 && h.errMsg == "":
		sections = append(sections, renderEmpty(width))
	default:
		menu := theme.Card.Render(strings.TrimRight(h.menu.View(), "\n"))
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, menu))
	}

	if h.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(h.errMsg))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderEmpty(width int) string {
	lines := []string{
		theme.Body.Render("No checklists yet."),
		"",
		theme.Hint.Render("Import one from the command line:"),
		lipgloss.NewStyle().Foreground(theme.Accent).Render("preflight import checklist.json"),
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

// Selected returns the id of the highlighted template, or "".
func (h *HomeScreen) Selected() string {
	if h.menu.Selected >= len(h.infos) {
		return ""
	}
	return h.infos[h.menu.Selected].ID
}
