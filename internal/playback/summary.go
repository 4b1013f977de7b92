package playback

import "sort"

// SectionSummary is the progress of one top-level section.
type SectionSummary struct {
	Title   string
	Done    int
	Skipped int
	Total   int
}

// SubsectionSummary is the progress of one breadcrumb group in a section.
type SubsectionSummary struct {
	Breadcrumb       string
	Title            string
	Done             int
	Total            int
	FirstGlobalIndex int
}

// OverallSummary counts items by status across the whole template.
type OverallSummary struct {
	Done    int
	Skipped int
	Pending int
	Total   int
}

// SectionSummaries returns one summary per section in template order.
func SectionSummaries(st *State) []SectionSummary {
	if st == nil {
		return nil
	}
	out := make([]SectionSummary, 0, st.Flat.SectionCount())
	for i, title := range st.Flat.SectionTitles {
		items := st.Index.SectionItems[i]
		total := len(items)
		out = append(out, SectionSummary{
			Title:   title,
			Done:    min(st.Statuses.Count(st.Flat, items, StatusDone), total),
			Skipped: min(st.Statuses.Count(st.Flat, items, StatusSkipped), total),
			Total:   total,
		})
	}
	return out
}

// SubsectionSummaries returns the breadcrumb groups of section i ordered by
// where they first appear. Nil when i is out of range.
func SubsectionSummaries(st *State, i int) []SubsectionSummary {
	if st == nil || i < 0 || i >= len(st.Index.SubsectionItems) {
		return nil
	}
	groups := st.Index.SubsectionItems[i]
	out := make([]SubsectionSummary, 0, len(groups))
	for crumb, items := range groups {
		if len(items) == 0 {
			continue
		}
		// Titles may contain the separator themselves, so read the
		// innermost title off an item rather than splitting the breadcrumb.
		titles := st.Flat.Items[items[0]].SubsectionTitles
		title := titles[len(titles)-1]
		out = append(out, SubsectionSummary{
			Breadcrumb:       crumb,
			Title:            title,
			Done:             min(st.Statuses.Count(st.Flat, items, StatusDone), len(items)),
			Total:            len(items),
			FirstGlobalIndex: items[0],
		})
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].FirstGlobalIndex < out[b].FirstGlobalIndex
	})
	return out
}

// Overall totals item statuses for the loaded template.
func Overall(st *State) OverallSummary {
	var sum OverallSummary
	if st == nil {
		return sum
	}
	for _, ref := range st.Flat.Items {
		switch st.Statuses.Get(ref.ID()) {
		case StatusDone:
			sum.Done++
		case StatusSkipped:
			sum.Skipped++
		default:
			sum.Pending++
		}
	}
	sum.Total = len(st.Flat.Items)
	return sum
}
