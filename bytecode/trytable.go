package bytecode

import "sort"

// TryRange is one try-block's half-open instruction range [Start, End)
// within a chunk.
type TryRange struct {
	Start int
	End   int
}

func (r TryRange) width() int { return r.End - r.Start }

// TryTable holds a function's try-block ranges, sorted by start offset.
// HasCatchJump scans them linearly and picks the innermost
// (smallest-width) range enclosing the ip.
type TryTable struct {
	ranges []TryRange
}

// Add registers a try-block range. Ranges may be added out of start
// order; Add keeps the slice sorted by Start.
func (t *TryTable) Add(start, end int) {
	r := TryRange{Start: start, End: end}
	i := sort.Search(len(t.ranges), func(i int) bool { return t.ranges[i].Start > start })
	t.ranges = append(t.ranges, TryRange{})
	copy(t.ranges[i+1:], t.ranges[i:])
	t.ranges[i] = r
}

// HasCatchJump returns the end offset of the innermost try-block
// enclosing ip, if any. "Innermost" means the smallest-width range
// among all ranges containing ip — nested try-blocks are not
// necessarily contiguous in Start order, so every enclosing candidate
// is checked rather than stopping at the first match.
func (t *TryTable) HasCatchJump(ip int) (end int, ok bool) {
	return bestCatch(t.ranges, ip)
}

// bestCatch scans every range containing ip and returns the end of the
// narrowest one.
func bestCatch(ranges []TryRange, ip int) (end int, ok bool) {
	width := -1
	for _, r := range ranges {
		if ip < r.Start || ip >= r.End {
			continue
		}
		if width == -1 || r.width() < width {
			width = r.width()
			end = r.End
			ok = true
		}
	}
	return end, ok
}

// Len reports the number of try-block ranges, for serialization.
func (t *TryTable) Len() int { return len(t.ranges) }

// Ranges returns the sorted ranges, for serialization.
func (t *TryTable) Ranges() []TryRange { return t.ranges }
