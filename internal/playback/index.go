package playback

// Index groups item positions by section and by sub-section breadcrumb so
// progress queries cost O(section size) instead of a full scan.
type Index struct {
	// SectionItems[i] holds the global indices of section i in order.
	SectionItems [][]int

	// SubsectionItems[i] maps a breadcrumb to the global indices under it
	// within section i. Direct section children are not in the map.
	// Distinct sub-sections sharing a title path collapse into one group.
	SubsectionItems []map[string][]int
}

// BuildIndex derives the index from a flattened template.
func BuildIndex(f *Flat) *Index {
	n := f.SectionCount()
	idx := &Index{
		SectionItems:    make([][]int, n),
		SubsectionItems: make([]map[string][]int, n),
	}
	for i := range idx.SubsectionItems {
		idx.SubsectionItems[i] = make(map[string][]int)
	}
	if f == nil {
		return idx
	}

	for _, ref := range f.Items {
		s := ref.SectionIndex
		idx.SectionItems[s] = append(idx.SectionItems[s], ref.GlobalIndex)
		if len(ref.SubsectionTitles) == 0 {
			continue
		}
		crumb := ref.Breadcrumb()
		idx.SubsectionItems[s][crumb] = append(idx.SubsectionItems[s][crumb], ref.GlobalIndex)
	}
	return idx
}

// Direct returns the indices of section i that belong to no sub-section.
func (idx *Index) Direct(i int) []int {
	if idx == nil || i < 0 || i >= len(idx.SectionItems) {
		return nil
	}
	claimed := make(map[int]bool)
	for _, group := range idx.SubsectionItems[i] {
		for _, g := range group {
			claimed[g] = true
		}
	}
	var out []int
	for _, g := range idx.SectionItems[i] {
		if !claimed[g] {
			out = append(out, g)
		}
	}
	return out
}
