// Package checklist defines the template tree: ordered blocks of sections,
// sub-sections and items nested to arbitrary depth.
package checklist

import "github.com/google/uuid"

// BlockKind tags the three block variants.
type BlockKind string

const (
	KindSection    BlockKind = "section"
	KindSubsection BlockKind = "subsection"
	KindItem       BlockKind = "item"
)

// Block is a node in the checklist tree. The set of implementations is closed:
// *SectionBlock, *SubsectionBlock and *ItemBlock.
type Block interface {
	// BlockID returns the block's stable unique identifier.
	BlockID() string

	// Kind returns the variant tag.
	Kind() BlockKind

	isBlock()
}

// SectionBlock wraps a top-level Section.
type SectionBlock struct {
	ID      string
	Section *Section
}

// SubsectionBlock wraps a Subsection nested under a section or another sub-section.
type SubsectionBlock struct {
	ID         string
	Subsection *Subsection
}

// ItemBlock wraps a leaf Item.
type ItemBlock struct {
	ID   string
	Item *Item
}

func (b *SectionBlock) BlockID() string    { return b.ID }
func (b *SubsectionBlock) BlockID() string { return b.ID }
func (b *ItemBlock) BlockID() string       { return b.ID }

func (b *SectionBlock) Kind() BlockKind    { return KindSection }
func (b *SubsectionBlock) Kind() BlockKind { return KindSubsection }
func (b *ItemBlock) Kind() BlockKind       { return KindItem }

func (*SectionBlock) isBlock()    {}
func (*SubsectionBlock) isBlock() {}
func (*ItemBlock) isBlock()       {}

// Section is a titled group of items and sub-sections. Sections are expected
// only at the top level of a template.
type Section struct {
	ID     string
	Title  string
	Blocks []Block
}

// Subsection has the same shape as Section but lives inside one.
type Subsection struct {
	ID     string
	Title  string
	Blocks []Block
}

// Item is a single checklist step.
type Item struct {
	ID     string
	Title  string
	Action string

	// Completed is the authoring-time flag. It is independent of the
	// playback status tracked by the player.
	Completed bool

	BackgroundColorHex string

	InfoTitle string
	InfoBody  string

	ImageURI         string
	ImageTitle       string
	ImageDescription string
}

// HasInfo reports whether the item carries an info note.
func (i *Item) HasInfo() bool {
	return i.InfoTitle != "" || i.InfoBody != ""
}

// Template is a complete checklist document.
type Template struct {
	ID            string
	Name          string
	AircraftModel string
	Airline       string
	IncludeLogo   bool
	LogoRef       string

	// Format is the semantic version of the file format the template was
	// decoded from. Empty means the current major version.
	Format string

	Blocks []Block
}

// Sections returns the top-level sections in order, ignoring any other
// top-level block kinds.
func (t *Template) Sections() []*Section {
	if t == nil {
		return nil
	}
	sections := make([]*Section, 0, len(t.Blocks))
	for _, b := range t.Blocks {
		if sb, ok := b.(*SectionBlock); ok && sb.Section != nil {
			sections = append(sections, sb.Section)
		}
	}
	return sections
}

// ItemCount returns the number of item blocks anywhere in the tree.
func (t *Template) ItemCount() int {
	if t == nil {
		return 0
	}
	n := 0
	Walk(t.Blocks, func(b Block, _ int) bool {
		if _, ok := b.(*ItemBlock); ok {
			n++
		}
		return true
	})
	return n
}

// Walk visits blocks in pre-order, depth first. depth is 0 for the blocks
// passed in. Returning false from fn skips the block's children.
func Walk(blocks []Block, fn func(b Block, depth int) bool) {
	walk(blocks, 0, fn)
}

func walk(blocks []Block, depth int, fn func(Block, int) bool) {
	for _, b := range blocks {
		if !fn(b, depth) {
			continue
		}
		switch v := b.(type) {
		case *SectionBlock:
			if v.Section != nil {
				walk(v.Section.Blocks, depth+1, fn)
			}
		case *SubsectionBlock:
			if v.Subsection != nil {
				walk(v.Subsection.Blocks, depth+1, fn)
			}
		case *ItemBlock:
		}
	}
}

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.NewString()
}

// NewTemplate creates an empty template with a fresh id.
func NewTemplate(name string, sections ...*SectionBlock) *Template {
	t := &Template{ID: NewID(), Name: name}
	for _, s := range sections {
		t.Blocks = append(t.Blocks, s)
	}
	return t
}

// NewSection creates a section block with fresh ids.
func NewSection(title string, blocks ...Block) *SectionBlock {
	return &SectionBlock{
		ID:      NewID(),
		Section: &Section{ID: NewID(), Title: title, Blocks: blocks},
	}
}

// NewSubsection creates a sub-section block with fresh ids.
func NewSubsection(title string, blocks ...Block) *SubsectionBlock {
	return &SubsectionBlock{
		ID:         NewID(),
		Subsection: &Subsection{ID: NewID(), Title: title, Blocks: blocks},
	}
}

// NewItem creates an item block with fresh ids.
func NewItem(title, action string) *ItemBlock {
	return &ItemBlock{
		ID:   NewID(),
		Item: &Item{ID: NewID(), Title: title, Action: action},
	}
}
