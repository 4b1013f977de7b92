package player

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/preflight/internal/playback"
	"github.com/abhisek/preflight/internal/ui/components"
	"github.com/abhisek/preflight/internal/ui/layout"
	"github.com/abhisek/preflight/internal/ui/theme"
)

const maxCardWidth = 72

func (s *PlayerScreen) View(width, height int) string {
	st := s.player.State()
	if st == nil {
		return renderNotice(width, height, "No checklist loaded.")
	}
	ref, ok := st.Current()
	if !ok {
		return renderNotice(width, height, "This checklist has no items.")
	}

	cw := min(width-4, maxCardWidth)
	var parts []string

	// Section and breadcrumb.
	sectionLine := fmt.Sprintf("SECTION %d/%d  %s",
		ref.SectionIndex+1, st.Flat.SectionCount(), strings.ToUpper(ref.Section.Title))
	parts = append(parts, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(sectionLine))
	if crumb := ref.Breadcrumb(); crumb != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render(crumb))
	}

	parts = append(parts, renderCard(ref, st.StatusOf(ref.ID()), cw))

	if st.Paused {
		parts = append(parts, theme.Paused.Render("PAUSED"))
	}

	// Position.
	pos := fmt.Sprintf("Item %d of %d", st.Cursor+1, st.Total())
	parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render(pos))
	parts = append(parts, components.NewProgressBar("", st.Progress(), true, cw).View())

	if s.jumping {
		prompt := lipgloss.NewStyle().Foreground(theme.Accent).Render("Jump to item: ")
		parts = append(parts, prompt+s.jump.View())
	}

	used := lipgloss.Height(strings.Join(parts, "\n"))
	if rows := height - used - 4; rows > 2 && !layout.IsCompactHeight(height+8) {
		parts = append(parts, layout.Rule(cw), renderSectionItems(st, rows-1))
	}

	content := strings.Join(parts, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(content))
}

// renderCard renders the current item in challenge ... response form.
func renderCard(ref playback.ItemRef, status playback.ItemStatus, width int) string {
	item := ref.Item()
	inner := width - 6 // border + padding

	title := item.Title
	action := strings.ToUpper(item.Action)
	line := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(title)
	if action != "" {
		gap := inner - lipgloss.Width(title) - lipgloss.Width(action) - 2
		if gap < 3 {
			line += "\n" + lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(action)
		} else {
			line += " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Repeat(".", gap)) + " " +
				lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(action)
		}
	}

	rows := []string{glyph(status) + " " + statusLabel(status), "", line}
	if item.HasInfo() {
		rows = append(rows, "")
		if item.InfoTitle != "" {
			rows = append(rows, lipgloss.NewStyle().Foreground(theme.Primary).Render("ⓘ "+item.InfoTitle))
		}
		if item.InfoBody != "" {
			rows = append(rows, lipgloss.NewStyle().Foreground(theme.TextDim).Width(inner).Render(item.InfoBody))
		}
	}

	border := theme.Border
	switch status {
	case playback.StatusDone:
		border = theme.Success
	case playback.StatusSkipped:
		border = theme.Accent
	}
	return theme.Card.
		BorderForeground(border).
		Width(width).
		Render(strings.Join(rows, "\n"))
}

// renderSectionItems lists the items of the current section around the
// cursor, at most rows lines.
func renderSectionItems(st *playback.State, rows int) string {
	sec := st.CurrentSection()
	indices := st.Index.SectionItems[sec]
	if len(indices) == 0 {
		return ""
	}

	pos := 0
	for i, gi := range indices {
		if gi == st.Cursor {
			pos = i
			break
		}
	}
	start := max(0, pos-rows/2)
	end := min(len(indices), start+rows)
	start = max(0, end-rows)

	var b strings.Builder
	for _, gi := range indices[start:end] {
		ref := st.Flat.Items[gi]
		label := ref.Item().Title
		if crumb := ref.Breadcrumb(); crumb != "" {
			label = crumb + playback.BreadcrumbSeparator + label
		}
		style := theme.Unselected
		marker := "  "
		if gi == st.Cursor {
			style = theme.Selected
			marker = "▸ "
		}
		b.WriteString(marker + glyph(st.StatusOf(ref.ID())) + " " + style.Render(label) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func glyph(status playback.ItemStatus) string {
	switch status {
	case playback.StatusDone:
		return theme.Done.Render("✓")
	case playback.StatusSkipped:
		return theme.Skipped.Render("↷")
	default:
		return theme.Pending.Render("○")
	}
}

func statusLabel(status playback.ItemStatus) string {
	switch status {
	case playback.StatusDone:
		return theme.Done.Render("DONE")
	case playback.StatusSkipped:
		return theme.Skipped.Render("SKIPPED")
	default:
		return theme.Pending.Render("PENDING")
	}
}

func renderNotice(width, height int, msg string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(msg))
}
