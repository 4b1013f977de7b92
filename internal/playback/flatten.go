// Package playback turns a checklist template into an ordered sequence of
// steps and drives a cursor through it while tracking per-item status.
package playback

import (
	"strings"

	"github.com/abhisek/preflight/internal/checklist"
)

// BreadcrumbSeparator joins sub-section titles into a breadcrumb.
const BreadcrumbSeparator = " › "

// ItemRef is one leaf item in the flattened sequence, annotated with the
// section and sub-section context it was found in.
type ItemRef struct {
	// GlobalIndex is the position in Flat.Items.
	GlobalIndex int

	// SectionIndex is the position of the enclosing section among the
	// template's sections.
	SectionIndex int

	// SubsectionPath holds, for each enclosing sub-section from the
	// outermost, its position within its parent's blocks.
	SubsectionPath []int

	Block   *checklist.ItemBlock
	Section *checklist.Section

	// SubsectionTitles are the enclosing sub-section titles, outermost first.
	SubsectionTitles []string
}

// ID returns the item block id, the key used for status tracking.
func (r ItemRef) ID() string {
	if r.Block == nil {
		return ""
	}
	return r.Block.ID
}

// Item returns the wrapped item, or nil.
func (r ItemRef) Item() *checklist.Item {
	if r.Block == nil {
		return nil
	}
	return r.Block.Item
}

// Breadcrumb joins the sub-section titles. Empty for direct section children.
func (r ItemRef) Breadcrumb() string {
	return strings.Join(r.SubsectionTitles, BreadcrumbSeparator)
}

// Flat is the flattened, immutable view of a template.
type Flat struct {
	Template        *checklist.Template
	Items           []ItemRef
	SectionStartsAt []int
	SectionTitles   []string

	// Skipped lists ids of malformed blocks left out of the sequence:
	// sections nested inside a section and non-section top-level blocks.
	Skipped []string
}

// Total returns the number of items.
func (f *Flat) Total() int {
	if f == nil {
		return 0
	}
	return len(f.Items)
}

// SectionCount returns the number of sections.
func (f *Flat) SectionCount() int {
	if f == nil {
		return 0
	}
	return len(f.SectionTitles)
}

// SectionEnd returns the exclusive end index of section i.
func (f *Flat) SectionEnd(i int) int {
	if i+1 < len(f.SectionStartsAt) {
		return f.SectionStartsAt[i+1]
	}
	return len(f.Items)
}

// Flatten walks the template once, depth first in pre-order, and returns
// the leaf items in playback order.
func Flatten(t *checklist.Template) *Flat {
	f := &Flat{Template: t}
	if t == nil {
		return f
	}

	for _, b := range t.Blocks {
		sb, ok := b.(*checklist.SectionBlock)
		if !ok || sb.Section == nil {
			f.Skipped = append(f.Skipped, b.BlockID())
			continue
		}
		sectionIndex := len(f.SectionTitles)
		f.SectionStartsAt = append(f.SectionStartsAt, len(f.Items))
		f.SectionTitles = append(f.SectionTitles, sb.Section.Title)
		f.walk(sb.Section.Blocks, sectionIndex, sb.Section, nil, nil)
	}

	for i := range f.Items {
		f.Items[i].GlobalIndex = i
	}
	return f
}

func (f *Flat) walk(blocks []checklist.Block, sectionIndex int, section *checklist.Section, path []int, titles []string) {
	for pos, b := range blocks {
		switch v := b.(type) {
		case *checklist.ItemBlock:
			f.Items = append(f.Items, ItemRef{
				SectionIndex:     sectionIndex,
				SubsectionPath:   path,
				Block:            v,
				Section:          section,
				SubsectionTitles: titles,
			})
		case *checklist.SubsectionBlock:
			if v.Subsection == nil {
				continue
			}
			f.walk(v.Subsection.Blocks, sectionIndex, section,
				extend(path, pos), extend(titles, v.Subsection.Title))
		case *checklist.SectionBlock:
			f.Skipped = append(f.Skipped, v.ID)
		}
	}
}

// extend returns a new slice so siblings never share a backing array.
func extend[T any](s []T, v T) []T {
	out := make([]T, len(s)+1)
	copy(out, s)
	out[len(s)] = v
	return out
}
