// Package sections shows per-section progress and lets the user jump to
// the start of a section.
package sections

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

// SectionsScreen lists the sections of the loaded checklist.
type SectionsScreen struct {
	player   *playback.Player
	selected int
}

var _ screen.Screen = (*SectionsScreen)(nil)
var _ screen.KeyHintProvider = (*SectionsScreen)(nil)

// New creates a SectionsScreen with the cursor's section selected.
func New(p *playback.Player) *SectionsScreen {
	return &SectionsScreen{player: p, selected: max(0, p.State().CurrentSection())}
}

func (s *SectionsScreen) Init() tea.Cmd {
	return nil
}

func (s *SectionsScreen) Title() string {
	return "Sections"
}

func (s *SectionsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Jump to section"},
		{Key: "Esc", Description: "Back"},
	}
}

// Selected returns the highlighted section index.
func (s *SectionsScreen) Selected() int {
	return s.selected
}

func (s *SectionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	count := 0
	if st := s.player.State(); st != nil {
		count = st.Flat.SectionCount()
	}

	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < count-1 {
			s.selected++
		}
	case "enter", "tab":
		s.player.JumpToSection(s.selected)
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *SectionsScreen) View(width, height int) string {
	st := s.player.State()
	summaries := playback.SectionSummaries(st)
	if len(summaries) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("This checklist has no sections."))
	}

	cw := min(width-4, 76)
	var b strings.Builder

	for i, sum := range summaries {
		marker := "  "
		label := theme.Unselected.Render(truncate(sum.Title, 28))
		if i == s.selected {
			marker = theme.Selected.Render("▸ ")
			label = theme.Selected.Render(truncate(sum.Title, 28))
		}
		label += strings.Repeat(" ", max(0, 28-lipgloss.Width(label)))
		bar := components.NewCountBar("", sum.Done, sum.Total, cw-32)
		b.WriteString(marker + label + "  " + bar.View())
		if sum.Skipped > 0 {
			b.WriteString(theme.Skipped.Render(fmt.Sprintf("  %d skipped", sum.Skipped)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + layout.Rule(cw) + "\n\n")

	subs := playback.SubsectionSummaries(st, s.selected)
	if len(subs) == 0 {
		b.WriteString(theme.Hint.Render("No sub-sections in " + summaries[s.selected].Title))
	} else {
		for _, sub := range subs {
			counts := fmt.Sprintf("%d/%d", sub.Done, sub.Total)
			style := theme.Body
			if sub.Total > 0 && sub.Done == sub.Total {
				style = theme.Done
			}
			b.WriteString("  " + style.Render(sub.Breadcrumb) + "  " +
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(counts) + "\n")
		}
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(b.String()))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
