// Package debrief summarises a checklist run once the last item is reached.
package debrief

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/preflight/internal/playback"
	"github.com/abhisek/preflight/internal/router"
	"github.com/abhisek/preflight/internal/screen"
	"github.com/abhisek/preflight/internal/ui/components"
	"github.com/abhisek/preflight/internal/ui/layout"
	"github.com/abhisek/preflight/internal/ui/theme"
)

// maxListed caps the open-items list.
const maxListed = 8

// DebriefScreen displays the outcome of a run.
type DebriefScreen struct {
	state *playback.State
}

var _ screen.Screen = (*DebriefScreen)(nil)
var _ screen.KeyHintProvider = (*DebriefScreen)(nil)

// New creates a DebriefScreen for a snapshot.
func New(st *playback.State) *DebriefScreen {
	return &DebriefScreen{state: st}
}

func (s *DebriefScreen) Init() tea.Cmd {
	return nil
}

func (s *DebriefScreen) Title() string {
	return "Debrief"
}

func (s *DebriefScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Back to checklist"},
	}
}

func (s *DebriefScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "q":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

// Headline returns the one-line verdict shown at the top.
func (s *DebriefScreen) Headline() string {
	o := playback.Overall(s.state)
	switch {
	case o.Total == 0:
		return "Nothing to check"
	case o.Pending == 0 && o.Skipped == 0:
		return "Checklist complete"
	case o.Pending == 0:
		return fmt.Sprintf("Checklist complete, %d skipped", o.Skipped)
	default:
		return fmt.Sprintf("%d items still open", o.Pending)
	}
}

func (s *DebriefScreen) View(width, height int) string {
	st := s.state
	if st == nil {
		return ""
	}
	o := playback.Overall(st)
	cw := min(width-8, 64)

	var b strings.Builder

	headStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	if o.Pending > 0 {
		headStyle = headStyle.Foreground(theme.Accent)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, headStyle.Render(s.Headline())))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Done: %d        Skipped: %d        Pending: %d", o.Done, o.Skipped, o.Pending)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Body.Render(stats)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Sections")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, layout.Rule(cw)))
	b.WriteString("\n\n")

	for _, sum := range playback.SectionSummaries(st) {
		bar := components.NewCountBar(fmt.Sprintf("%-20.20s", sum.Title), sum.Done, sum.Total, cw)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n")
	}

	open := openItems(st)
	if len(open) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Open items")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, layout.Rule(cw)))
		b.WriteString("\n\n")

		for i, ref := range open {
			if i == maxListed {
				more := fmt.Sprintf("… and %d more", len(open)-maxListed)
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(more)))
				b.WriteString("\n")
				break
			}
			style := theme.Pending
			if st.StatusOf(ref.ID()) == playback.StatusSkipped {
				style = theme.Skipped
			}
			line := fmt.Sprintf("%-*s", cw, fmt.Sprintf("%d. %s", ref.GlobalIndex+1, ref.Item().Title))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// openItems returns every item not marked done, in sequence order.
func openItems(st *playback.State) []playback.ItemRef {
	var out []playback.ItemRef
	for _, ref := range st.Flat.Items {
		if st.StatusOf(ref.ID()) != playback.StatusDone {
			out = append(out, ref)
		}
	}
	return out
}
