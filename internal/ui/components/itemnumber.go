package components

import (
	"fmt"
	"strconv"
	"unicode"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/preflight/internal/ui/theme"
)

// ItemNumberInput reads a 1-based item number for a checklist of Total
// items. Only digits are accepted and the field is no wider than Total.
type ItemNumberInput struct {
	Model    textinput.Model
	Total    int
	rejected bool
}

// NewItemNumberInput creates a focused input for numbers 1..total.
func NewItemNumberInput(total int) ItemNumberInput {
	if total < 1 {
		total = 1
	}
	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("1-%d", total)
	ti.CharLimit = len(strconv.Itoa(total))
	ti.Focus()
	return ItemNumberInput{Model: ti, Total: total}
}

// Init returns the initial command.
func (in ItemNumberInput) Init() tea.Cmd {
	return in.Model.Focus()
}

// Update handles messages. Key presses carrying anything but digits are
// dropped. Any accepted key clears a previous rejection.
func (in ItemNumberInput) Update(msg tea.Msg) (ItemNumberInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		for _, r := range kmsg.Text {
			if !unicode.IsDigit(r) {
				return in, nil
			}
		}
	}

	in.rejected = false
	var cmd tea.Cmd
	in.Model, cmd = in.Model.Update(msg)
	return in, cmd
}

// Item returns the entered number clamped to 1..Total. ok is false when
// nothing usable has been typed.
func (in ItemNumberInput) Item() (n int, ok bool) {
	n, err := strconv.Atoi(in.Model.Value())
	if err != nil {
		return 0, false
	}
	return max(1, min(n, in.Total)), true
}

// Reject flags the current entry as unusable until the next edit.
func (in *ItemNumberInput) Reject() {
	in.rejected = true
}

// Value returns the raw text.
func (in ItemNumberInput) Value() string {
	return in.Model.Value()
}

// View renders the input, with a cross after a rejected entry.
func (in ItemNumberInput) View() string {
	view := in.Model.View()
	if in.rejected {
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}
