package playback

// State is an immutable snapshot of a playback session. A nil *State means
// no template is loaded.
type State struct {
	Flat  *Flat
	Index *Index

	// Cursor is the global index of the current item.
	Cursor int

	Statuses Statuses

	// Paused is a presentation hint; it does not block navigation.
	Paused bool

	// SessionID identifies one Load or Restore of a template.
	SessionID string
}

// Total returns the number of items.
func (s *State) Total() int {
	if s == nil {
		return 0
	}
	return s.Flat.Total()
}

// Current returns the item under the cursor. ok is false when nothing is
// loaded or the template has no items.
func (s *State) Current() (ref ItemRef, ok bool) {
	if s.Total() == 0 {
		return ItemRef{}, false
	}
	return s.Flat.Items[s.Cursor], true
}

// Progress returns (cursor+1)/total, or 0 for an empty sequence.
func (s *State) Progress() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Cursor+1) / float64(total)
}

// Completion returns the share of items marked done.
func (s *State) Completion() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	done := 0
	for _, ref := range s.Flat.Items {
		if s.Statuses.Get(ref.ID()) == StatusDone {
			done++
		}
	}
	return float64(done) / float64(total)
}

// StatusOf returns the status of an item id.
func (s *State) StatusOf(id string) ItemStatus {
	if s == nil {
		return StatusPending
	}
	return s.Statuses.Get(id)
}

// IsLast reports whether the cursor is on the final item.
func (s *State) IsLast() bool {
	total := s.Total()
	return total > 0 && s.Cursor == total-1
}

// CurrentSection returns the section index of the current item, or -1.
func (s *State) CurrentSection() int {
	ref, ok := s.Current()
	if !ok {
		return -1
	}
	return ref.SectionIndex
}

// with returns a shallow copy that callers adjust before publishing.
func (s *State) with() *State {
	c := *s
	return &c
}
