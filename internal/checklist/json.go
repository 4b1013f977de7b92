package checklist

import (
	"encoding/json"
	"fmt"
)

// Wire representation. Each block is an envelope carrying its type tag, its
// id and exactly one payload matching the tag.

type templateDoc struct {
	ID            string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name          string     `json:"name" yaml:"name"`
	AircraftModel string     `json:"aircraftModel,omitempty" yaml:"aircraftModel,omitempty"`
	Airline       string     `json:"airline,omitempty" yaml:"airline,omitempty"`
	IncludeLogo   bool       `json:"includeLogo,omitempty" yaml:"includeLogo,omitempty"`
	LogoRef       string     `json:"logoRef,omitempty" yaml:"logoRef,omitempty"`
	Format        string     `json:"format,omitempty" yaml:"format,omitempty"`
	Blocks        []blockDoc `json:"blocks" yaml:"blocks"`
}

type blockDoc struct {
	Type       BlockKind `json:"type" yaml:"type"`
	ID         string    `json:"id,omitempty" yaml:"id,omitempty"`
	Section    *groupDoc `json:"section,omitempty" yaml:"section,omitempty"`
	Subsection *groupDoc `json:"subsection,omitempty" yaml:"subsection,omitempty"`
	Item       *itemDoc  `json:"item,omitempty" yaml:"item,omitempty"`
}

type groupDoc struct {
	ID     string     `json:"id,omitempty" yaml:"id,omitempty"`
	Title  string     `json:"title" yaml:"title"`
	Blocks []blockDoc `json:"blocks" yaml:"blocks"`
}

type itemDoc struct {
	ID                 string `json:"id,omitempty" yaml:"id,omitempty"`
	Title              string `json:"title" yaml:"title"`
	Action             string `json:"action,omitempty" yaml:"action,omitempty"`
	Completed          bool   `json:"completed,omitempty" yaml:"completed,omitempty"`
	BackgroundColorHex string `json:"backgroundColorHex,omitempty" yaml:"backgroundColorHex,omitempty"`
	InfoTitle          string `json:"infoTitle,omitempty" yaml:"infoTitle,omitempty"`
	InfoBody           string `json:"infoBody,omitempty" yaml:"infoBody,omitempty"`
	ImageURI           string `json:"imageUri,omitempty" yaml:"imageUri,omitempty"`
	ImageTitle         string `json:"imageTitle,omitempty" yaml:"imageTitle,omitempty"`
	ImageDescription   string `json:"imageDescription,omitempty" yaml:"imageDescription,omitempty"`
}

// MarshalJSON encodes the template in the envelope format.
func (t *Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(toDoc(t))
}

// UnmarshalJSON decodes the envelope format. Missing ids are filled with
// fresh ones so every block ends up addressable.
func (t *Template) UnmarshalJSON(data []byte) error {
	var doc templateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	decoded, err := fromDoc(doc)
	if err != nil {
		return err
	}
	*t = *decoded
	return nil
}

func toDoc(t *Template) templateDoc {
	return templateDoc{
		ID:            t.ID,
		Name:          t.Name,
		AircraftModel: t.AircraftModel,
		Airline:       t.Airline,
		IncludeLogo:   t.IncludeLogo,
		LogoRef:       t.LogoRef,
		Format:        t.Format,
		Blocks:        blocksToDoc(t.Blocks),
	}
}

func blocksToDoc(blocks []Block) []blockDoc {
	out := make([]blockDoc, 0, len(blocks))
	for _, b := range blocks {
		switch v := b.(type) {
		case *SectionBlock:
			d := blockDoc{Type: KindSection, ID: v.ID}
			if v.Section != nil {
				d.Section = &groupDoc{ID: v.Section.ID, Title: v.Section.Title, Blocks: blocksToDoc(v.Section.Blocks)}
			}
			out = append(out, d)
		case *SubsectionBlock:
			d := blockDoc{Type: KindSubsection, ID: v.ID}
			if v.Subsection != nil {
				d.Subsection = &groupDoc{ID: v.Subsection.ID, Title: v.Subsection.Title, Blocks: blocksToDoc(v.Subsection.Blocks)}
			}
			out = append(out, d)
		case *ItemBlock:
			d := blockDoc{Type: KindItem, ID: v.ID}
			if it := v.Item; it != nil {
				d.Item = &itemDoc{
					ID:                 it.ID,
					Title:              it.Title,
					Action:             it.Action,
					Completed:          it.Completed,
					BackgroundColorHex: it.BackgroundColorHex,
					InfoTitle:          it.InfoTitle,
					InfoBody:           it.InfoBody,
					ImageURI:           it.ImageURI,
					ImageTitle:         it.ImageTitle,
					ImageDescription:   it.ImageDescription,
				}
			}
			out = append(out, d)
		}
	}
	return out
}

func fromDoc(doc templateDoc) (*Template, error) {
	blocks, err := blocksFromDoc(doc.Blocks, "blocks")
	if err != nil {
		return nil, err
	}
	return &Template{
		ID:            orNewID(doc.ID),
		Name:          doc.Name,
		AircraftModel: doc.AircraftModel,
		Airline:       doc.Airline,
		IncludeLogo:   doc.IncludeLogo,
		LogoRef:       doc.LogoRef,
		Format:        doc.Format,
		Blocks:        blocks,
	}, nil
}

func blocksFromDoc(docs []blockDoc, path string) ([]Block, error) {
	blocks := make([]Block, 0, len(docs))
	for i, d := range docs {
		at := fmt.Sprintf("%s[%d]", path, i)
		switch d.Type {
		case KindSection:
			if d.Section == nil {
				return nil, fmt.Errorf("%s: section block without section payload", at)
			}
			children, err := blocksFromDoc(d.Section.Blocks, at+".section.blocks")
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, &SectionBlock{
				ID:      orNewID(d.ID),
				Section: &Section{ID: orNewID(d.Section.ID), Title: d.Section.Title, Blocks: children},
			})
		case KindSubsection:
			if d.Subsection == nil {
				return nil, fmt.Errorf("%s: subsection block without subsection payload", at)
			}
			children, err := blocksFromDoc(d.Subsection.Blocks, at+".subsection.blocks")
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, &SubsectionBlock{
				ID:         orNewID(d.ID),
				Subsection: &Subsection{ID: orNewID(d.Subsection.ID), Title: d.Subsection.Title, Blocks: children},
			})
		case KindItem:
			if d.Item == nil {
				return nil, fmt.Errorf("%s: item block without item payload", at)
			}
			blocks = append(blocks, &ItemBlock{
				ID: orNewID(d.ID),
				Item: &Item{
					ID:                 orNewID(d.Item.ID),
					Title:              d.Item.Title,
					Action:             d.Item.Action,
					Completed:          d.Item.Completed,
					BackgroundColorHex: d.Item.BackgroundColorHex,
					InfoTitle:          d.Item.InfoTitle,
					InfoBody:           d.Item.InfoBody,
					ImageURI:           d.Item.ImageURI,
					ImageTitle:         d.Item.ImageTitle,
					ImageDescription:   d.Item.ImageDescription,
				},
			})
		default:
			return nil, fmt.Errorf("%s: unknown block type %q", at, d.Type)
		}
	}
	return blocks, nil
}

func orNewID(id string) string {
	if id != "" {
		return id
	}
	return NewID()
}
