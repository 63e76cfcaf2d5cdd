// Package segment partitions a byte range at a set of interior cut offsets.
package segment

import "slices"

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes in r.
func (r Range) Len() int { return r.End - r.Start }

// Boundaries collects cut offsets for the range [start, end).
// Offsets outside the open interval (start, end) are ignored.
type Boundaries struct {
	start, end int
	cuts       []int
	sorted     bool
}

// New creates an empty boundary set for [start, end).
func New(start, end int) *Boundaries {
	if end < start {
		end = start
	}
	return &Boundaries{start: start, end: end, sorted: true}
}

// CheckIn adds every offset lying strictly inside the range.
func (b *Boundaries) CheckIn(offsets ...int) *Boundaries {
	for _, off := range offsets {
		if off > b.start && off < b.end {
			b.cuts = append(b.cuts, off)
			b.sorted = false
		}
	}
	return b
}

// CheckInRange adds both ends of [start, end) if they fall inside.
func (b *Boundaries) CheckInRange(start, end int) *Boundaries {
	return b.CheckIn(start, end)
}

func (b *Boundaries) normalize() {
	if b.sorted {
		return
	}
	slices.Sort(b.cuts)
	b.cuts = slices.Compact(b.cuts)
	b.sorted = true
}

// Cuts returns the sorted, deduplicated interior offsets.
func (b *Boundaries) Cuts() []int {
	b.normalize()
	return slices.Clone(b.cuts)
}

// Len is the number of ranges Ranges will yield: zero for an empty range,
// otherwise the number of distinct cuts plus one.
func (b *Boundaries) Len() int {
	if b.start == b.end {
		return 0
	}
	b.normalize()
	return len(b.cuts) + 1
}

// Ranges returns the consecutive sub-ranges (start,c1), (c1,c2), ..., (cn,end).
func (b *Boundaries) Ranges() []Range {
	n := b.Len()
	if n == 0 {
		return nil
	}
	out := make([]Range, 0, n)
	prev := b.start
	for _, c := range b.cuts {
		out = append(out, Range{Start: prev, End: c})
		prev = c
	}
	return append(out, Range{Start: prev, End: b.end})
}

// Each calls fn for every sub-range in order, stopping early if fn returns false.
func (b *Boundaries) Each(fn func(i int, r Range) bool) {
	for i, r := range b.Ranges() {
		if !fn(i, r) {
			return
		}
	}
}
