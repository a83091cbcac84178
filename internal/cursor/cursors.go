package cursor

import "sort"

// CursorSet manages multiple cursors/selections. Selections are kept
// sorted by position and non-overlapping; the first is the "primary"
// selection.
type CursorSet struct {
	selections []Selection
}

// NewCursorSet creates a cursor set with a single selection.
func NewCursorSet(initial Selection) *CursorSet {
	return &CursorSet{selections: []Selection{initial}}
}

// NewCursorSetAt creates a cursor set with a single cursor at offset.
func NewCursorSetAt(offset ByteOffset) *CursorSet {
	return &CursorSet{selections: []Selection{NewCursorSelection(offset)}}
}

// NewCursorSetFromSlice creates a cursor set from a slice of
// selections, normalizing (sorting and merging) them.
func NewCursorSetFromSlice(selections []Selection) *CursorSet {
	if len(selections) == 0 {
		return &CursorSet{selections: []Selection{NewCursorSelection(0)}}
	}
	cs := &CursorSet{selections: make([]Selection, len(selections))}
	copy(cs.selections, selections)
	cs.normalize()
	return cs
}

// Primary returns the primary (first) selection.
func (cs *CursorSet) Primary() Selection {
	if len(cs.selections) == 0 {
		return Selection{}
	}
	return cs.selections[0]
}

// PrimaryCursor returns the head offset of the primary selection.
func (cs *CursorSet) PrimaryCursor() ByteOffset {
	if len(cs.selections) == 0 {
		return 0
	}
	return cs.selections[0].Head
}

// All returns a copy of all selections, safe to mutate independently.
func (cs *CursorSet) All() []Selection {
	result := make([]Selection, len(cs.selections))
	copy(result, cs.selections)
	return result
}

// Count returns the number of cursors/selections.
func (cs *CursorSet) Count() int { return len(cs.selections) }

// IsMulti returns true if there is more than one selection.
func (cs *CursorSet) IsMulti() bool { return len(cs.selections) > 1 }

// Get returns the selection at index, or the zero Selection if out of range.
func (cs *CursorSet) Get(index int) Selection {
	if index < 0 || index >= len(cs.selections) {
		return Selection{}
	}
	return cs.selections[index]
}

// Add adds a new selection, merging with any overlapping ones.
func (cs *CursorSet) Add(sel Selection) {
	cs.selections = append(cs.selections, sel)
	cs.normalize()
}

// AddAll adds multiple selections.
func (cs *CursorSet) AddAll(sels []Selection) {
	cs.selections = append(cs.selections, sels...)
	cs.normalize()
}

// SetPrimary replaces the primary selection, keeping the others.
// After normalization the primary becomes whichever selection sorts
// first, which may differ from the one passed in if it overlaps others.
func (cs *CursorSet) SetPrimary(sel Selection) {
	if len(cs.selections) == 0 {
		cs.selections = []Selection{sel}
	} else {
		cs.selections[0] = sel
	}
	cs.normalize()
}

// Set replaces all selections with a single selection.
func (cs *CursorSet) Set(sel Selection) { cs.selections = []Selection{sel} }

// SetAll replaces all selections.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		cs.selections = []Selection{NewCursorSelection(0)}
		return
	}
	cs.selections = make([]Selection, len(sels))
	copy(cs.selections, sels)
	cs.normalize()
}

// Clear drops every selection but the primary.
func (cs *CursorSet) Clear() {
	if len(cs.selections) > 1 {
		cs.selections = cs.selections[:1]
	}
}

// Remove deletes the selection at index; if it was the last one it is
// replaced with a cursor at offset 0.
func (cs *CursorSet) Remove(index int) {
	if index < 0 || index >= len(cs.selections) {
		return
	}
	cs.selections = append(cs.selections[:index], cs.selections[index+1:]...)
	if len(cs.selections) == 0 {
		cs.selections = []Selection{NewCursorSelection(0)}
	}
}

// RemoveLast removes the last selection in position order (the set is
// kept sorted by start), unless it is the only one.
func (cs *CursorSet) RemoveLast() {
	if len(cs.selections) > 1 {
		cs.selections = cs.selections[:len(cs.selections)-1]
	}
}

// ForEach calls f for each selection with its index.
func (cs *CursorSet) ForEach(f func(index int, sel Selection)) {
	for i, sel := range cs.selections {
		f(i, sel)
	}
}

// Map applies f to each selection and returns the results.
func (cs *CursorSet) Map(f func(sel Selection) Selection) []Selection {
	result := make([]Selection, len(cs.selections))
	for i, sel := range cs.selections {
		result[i] = f(sel)
	}
	return result
}

// MapInPlace applies f to each selection in place, then re-normalizes.
func (cs *CursorSet) MapInPlace(f func(sel Selection) Selection) {
	for i, sel := range cs.selections {
		cs.selections[i] = f(sel)
	}
	cs.normalize()
}

// HasSelection returns true if any selection has extent.
func (cs *CursorSet) HasSelection() bool {
	for _, sel := range cs.selections {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// CollapseAll collapses every selection to a cursor at its head.
func (cs *CursorSet) CollapseAll() {
	for i, sel := range cs.selections {
		cs.selections[i] = sel.Collapse()
	}
	cs.normalize()
}

// Clamp clamps every selection to the valid range [0, maxOffset].
func (cs *CursorSet) Clamp(maxOffset ByteOffset) {
	for i, sel := range cs.selections {
		cs.selections[i] = sel.Clamp(maxOffset)
	}
	cs.normalize()
}

// Clone returns a deep copy of the cursor set.
func (cs *CursorSet) Clone() *CursorSet {
	clone := &CursorSet{selections: make([]Selection, len(cs.selections))}
	copy(clone.selections, cs.selections)
	return clone
}

// Ranges returns every selection's range.
func (cs *CursorSet) Ranges() []Range {
	ranges := make([]Range, len(cs.selections))
	for i, sel := range cs.selections {
		ranges[i] = sel.Range()
	}
	return ranges
}

// SelectionRanges returns ranges for non-empty selections only.
func (cs *CursorSet) SelectionRanges() []Range {
	var ranges []Range
	for _, sel := range cs.selections {
		if !sel.IsEmpty() {
			ranges = append(ranges, sel.Range())
		}
	}
	return ranges
}

// normalize sorts selections by start and merges overlapping/adjacent ones.
func (cs *CursorSet) normalize() {
	if len(cs.selections) <= 1 {
		return
	}
	sort.Slice(cs.selections, func(i, j int) bool {
		si, sj := cs.selections[i].Start(), cs.selections[j].Start()
		if si != sj {
			return si < sj
		}
		return cs.selections[i].End() > cs.selections[j].End()
	})

	merged := cs.selections[:1]
	for _, sel := range cs.selections[1:] {
		last := &merged[len(merged)-1]
		if sel.Start() <= last.End() {
			*last = last.Merge(sel)
		} else {
			merged = append(merged, sel)
		}
	}
	cs.selections = merged
}

// Equals returns true if two cursor sets have the same selections.
func (cs *CursorSet) Equals(other *CursorSet) bool {
	if other == nil || cs.Count() != other.Count() {
		return false
	}
	for i, sel := range cs.selections {
		if !sel.Equals(other.selections[i]) {
			return false
		}
	}
	return true
}
