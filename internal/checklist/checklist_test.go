package checklist

import (
	"strings"
	"testing"
)

func TestWalk_PreOrder(t *testing.T) {
	a1 := NewItem("a1", "")
	a2 := NewItem("a2", "")
	a3 := NewItem("a3", "")
	b1 := NewItem("b1", "")
	tpl := NewTemplate("t",
		NewSection("A", a1, NewSubsection("S", a2, NewSubsection("T", a3))),
		NewSection("B", b1),
	)

	var got []string
	Walk(tpl.Blocks, func(b Block, _ int) bool {
		if ib, ok := b.(*ItemBlock); ok {
			got = append(got, ib.Item.Title)
		}
		return true
	})

	want := "a1,a2,a3,b1"
	if strings.Join(got, ",") != want {
		t.Errorf("walk order = %v, want %s", got, want)
	}
	if tpl.ItemCount() != 4 {
		t.Errorf("ItemCount = %d, want 4", tpl.ItemCount())
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	tpl := NewTemplate("t", NewSection("A", NewSubsection("S", NewItem("hidden", ""))))

	visited := 0
	Walk(tpl.Blocks, func(b Block, depth int) bool {
		visited++
		return b.Kind() != KindSubsection
	})
	if visited != 2 {
		t.Errorf("visited = %d, want 2 (section + subsection)", visited)
	}
}

func TestSections_IgnoresNonSections(t *testing.T) {
	tpl := NewTemplate("t", NewSection("A"))
	tpl.Blocks = append(tpl.Blocks, NewItem("stray", ""))

	if n := len(tpl.Sections()); n != 1 {
		t.Errorf("Sections() length = %d, want 1", n)
	}
	var nilTpl *Template
	if nilTpl.Sections() != nil {
		t.Error("expected nil sections on nil template")
	}
}

func TestValidate_Clean(t *testing.T) {
	tpl := NewTemplate("ok", NewSection("A", NewItem("one", "ON")))
	ps := Validate(tpl)
	if len(ps) != 0 {
		t.Errorf("expected no problems, got %v", ps)
	}
	if ps.Err() != nil {
		t.Errorf("Err() = %v, want nil", ps.Err())
	}
}

func TestValidate_Findings(t *testing.T) {
	dup := NewItem("dup", "")
	twin := NewItem("twin", "")
	twin.ID = dup.ID

	nested := NewSection("Inner", NewItem("inner", ""))
	stray := NewItem("stray", "")
	blank := NewItem("  ", "")

	tpl := NewTemplate("t",
		NewSection("A", dup, twin, nested, blank),
		NewSection("Empty"),
	)
	tpl.Blocks = append(tpl.Blocks, stray)

	ps := Validate(tpl)

	errs := ps.Errors()
	warns := ps.Warnings()
	if len(errs) != 3 {
		t.Errorf("errors = %d (%v), want 3 (duplicate, blank title, top-level item)", len(errs), errs)
	}
	if len(warns) != 2 {
		t.Errorf("warnings = %d (%v), want 2 (nested section, empty section)", len(warns), warns)
	}
	if ps.Err() == nil {
		t.Error("expected Err() to be non-nil")
	}
}

func TestValidate_Nil(t *testing.T) {
	ps := Validate(nil)
	if len(ps.Errors()) != 1 {
		t.Errorf("errors = %d, want 1", len(ps.Errors()))
	}
}
