package checklist

import (
	"errors"
	"fmt"
	"strings"
)

// Severity grades a structural problem.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem is a single structural finding about a template.
type Problem struct {
	Severity Severity
	BlockID  string
	Message  string
}

func (p Problem) String() string {
	if p.BlockID == "" {
		return fmt.Sprintf("%s: %s", p.Severity, p.Message)
	}
	return fmt.Sprintf("%s: %s (block %s)", p.Severity, p.Message, p.BlockID)
}

// Problems is the result of Validate.
type Problems []Problem

// Errors returns only the error-severity problems.
func (ps Problems) Errors() Problems {
	return ps.filter(SeverityError)
}

// Warnings returns only the warning-severity problems.
func (ps Problems) Warnings() Problems {
	return ps.filter(SeverityWarning)
}

func (ps Problems) filter(s Severity) Problems {
	var out Problems
	for _, p := range ps {
		if p.Severity == s {
			out = append(out, p)
		}
	}
	return out
}

// Err joins all error-severity problems, or returns nil when there are none.
func (ps Problems) Err() error {
	errs := ps.Errors()
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, 0, len(errs))
	for _, p := range errs {
		joined = append(joined, errors.New(p.String()))
	}
	return errors.Join(joined...)
}

// Validate checks the structural invariants the editor is expected to keep.
// The player never calls it; malformed branches are skipped at playback.
func Validate(t *Template) Problems {
	var ps Problems
	if t == nil {
		return Problems{{Severity: SeverityError, Message: "template is nil"}}
	}
	if strings.TrimSpace(t.Name) == "" {
		ps = append(ps, Problem{Severity: SeverityError, Message: "template name is empty"})
	}

	seen := make(map[string]bool)
	claim := func(id, what string) {
		if id == "" {
			ps = append(ps, Problem{Severity: SeverityError, Message: what + " has an empty id"})
			return
		}
		if seen[id] {
			ps = append(ps, Problem{Severity: SeverityError, BlockID: id, Message: "duplicate id on " + what})
			return
		}
		seen[id] = true
	}

	for _, b := range t.Blocks {
		sb, ok := b.(*SectionBlock)
		if !ok {
			ps = append(ps, Problem{
				Severity: SeverityError,
				BlockID:  b.BlockID(),
				Message:  fmt.Sprintf("top-level %s block; only sections are allowed here", b.Kind()),
			})
			continue
		}
		claim(sb.ID, "section block")
		if sb.Section == nil {
			ps = append(ps, Problem{Severity: SeverityError, BlockID: sb.ID, Message: "section block has no section"})
			continue
		}
		claim(sb.Section.ID, "section")

		items := 0
		Walk(sb.Section.Blocks, func(child Block, _ int) bool {
			switch v := child.(type) {
			case *SectionBlock:
				ps = append(ps, Problem{
					Severity: SeverityWarning,
					BlockID:  v.ID,
					Message:  fmt.Sprintf("section nested inside %q is skipped during playback", sb.Section.Title),
				})
				return false
			case *SubsectionBlock:
				claim(v.ID, "subsection block")
				if v.Subsection == nil {
					ps = append(ps, Problem{Severity: SeverityError, BlockID: v.ID, Message: "subsection block has no subsection"})
					return false
				}
				claim(v.Subsection.ID, "subsection")
			case *ItemBlock:
				claim(v.ID, "item block")
				if v.Item == nil {
					ps = append(ps, Problem{Severity: SeverityError, BlockID: v.ID, Message: "item block has no item"})
					return false
				}
				claim(v.Item.ID, "item")
				if strings.TrimSpace(v.Item.Title) == "" {
					ps = append(ps, Problem{Severity: SeverityError, BlockID: v.ID, Message: "item title is empty"})
				}
				items++
			}
			return true
		})
		if items == 0 {
			ps = append(ps, Problem{
				Severity: SeverityWarning,
				BlockID:  sb.ID,
				Message:  fmt.Sprintf("section %q has no items", sb.Section.Title),
			})
		}
	}
	return ps
}
