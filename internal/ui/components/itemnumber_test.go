package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func typeText(in ItemNumberInput, text string) ItemNumberInput {
	for _, r := range text {
		in, _ = in.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return in
}

func TestItemNumberInput_Clamps(t *testing.T) {
	tests := []struct {
		total int
		typed string
		want  int
	}{
		{total: 12, typed: "7", want: 7},
		{total: 12, typed: "12", want: 12},
		{total: 12, typed: "0", want: 1},
		{total: 12, typed: "99", want: 12},
		{total: 4, typed: "3", want: 3},
	}
	for _, tt := range tests {
		in := typeText(NewItemNumberInput(tt.total), tt.typed)
		got, ok := in.Item()
		if !ok {
			t.Errorf("Item() for %q of %d not ok", tt.typed, tt.total)
			continue
		}
		if got != tt.want {
			t.Errorf("Item() for %q of %d = %d, want %d", tt.typed, tt.total, got, tt.want)
		}
	}
}

func TestItemNumberInput_WidthFollowsTotal(t *testing.T) {
	in := typeText(NewItemNumberInput(9), "42")
	if in.Value() != "4" {
		t.Errorf("Value() = %q, want a single digit for 9 items", in.Value())
	}
	if !strings.Contains(NewItemNumberInput(120).Model.Placeholder, "1-120") {
		t.Error("placeholder should show the item range")
	}
}

func TestItemNumberInput_DropsNonDigits(t *testing.T) {
	in := typeText(NewItemNumberInput(50), "a1 -")
	if in.Value() != "1" {
		t.Errorf("Value() = %q, want only the digit", in.Value())
	}
}

func TestItemNumberInput_EmptyIsNotOK(t *testing.T) {
	in := NewItemNumberInput(5)
	if _, ok := in.Item(); ok {
		t.Error("empty input should not yield an item")
	}
}

func TestItemNumberInput_RejectClearsOnEdit(t *testing.T) {
	in := NewItemNumberInput(5)
	in.Reject()
	if !strings.Contains(in.View(), "✗") {
		t.Error("rejected input should show a cross")
	}
	in = typeText(in, "2")
	if strings.Contains(in.View(), "✗") {
		t.Error("editing should clear the rejection")
	}
}
