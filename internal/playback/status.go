package playback

import "fmt"

// ItemStatus is the playback status of one item.
type ItemStatus int

const (
	StatusPending ItemStatus = iota
	StatusDone
	StatusSkipped
)

func (s ItemStatus) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusSkipped:
		return "skipped"
	default:
		return "pending"
	}
}

// ParseStatus converts the String form back to an ItemStatus.
func ParseStatus(s string) (ItemStatus, error) {
	switch s {
	case "pending", "":
		return StatusPending, nil
	case "done":
		return StatusDone, nil
	case "skipped":
		return StatusSkipped, nil
	}
	return StatusPending, fmt.Errorf("unknown item status %q", s)
}

// toggled flips between done and pending. Skipped items become done.
func (s ItemStatus) toggled() ItemStatus {
	if s == StatusDone {
		return StatusPending
	}
	return StatusDone
}

// Statuses maps item ids to their status. A Statuses value is never
// modified after it has been published; With returns a fresh copy.
type Statuses map[string]ItemStatus

// Get returns the status for id, pending when absent.
func (s Statuses) Get(id string) ItemStatus {
	return s[id]
}

// With returns a copy of s with id set to status.
func (s Statuses) With(id string, status ItemStatus) Statuses {
	out := make(Statuses, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[id] = status
	return out
}

// Count returns how many items at the given global indices have status.
func (s Statuses) Count(f *Flat, indices []int, status ItemStatus) int {
	n := 0
	for _, g := range indices {
		if s.Get(f.Items[g].ID()) == status {
			n++
		}
	}
	return n
}
