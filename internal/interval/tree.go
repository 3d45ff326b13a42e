package interval

import (
	"slices"
	"sort"
)

// Tree indexes disjoint runs for overlap queries. Runs are merged at
// construction, which keeps them sorted and disjoint, so a query is a binary
// search followed by a forward scan. A Tree is never modified after
// NewTree returns and is safe for concurrent readers.
type Tree struct {
	runs []Run
}

// NewTree merges segments and indexes the resulting runs.
func NewTree[S Segment](segments []S) *Tree {
	return &Tree{runs: Merge(segments)}
}

// Len returns the number of indexed runs.
func (t *Tree) Len() int { return len(t.runs) }

// Runs returns a copy of the indexed runs in order.
func (t *Tree) Runs() []Run { return slices.Clone(t.runs) }

// Overlapping returns the runs sharing a positive-length range with q.
func (t *Tree) Overlapping(q Span) []Run {
	if q.Offset <= q.Onset {
		return nil
	}
	lo := sort.Search(len(t.runs), func(i int) bool { return t.runs[i].Offset > q.Onset })
	hi := lo
	for hi < len(t.runs) && t.runs[hi].Overlaps(q) {
		hi++
	}
	return slices.Clone(t.runs[lo:hi])
}

// OverlapWithin sums, over every run of t overlapping window, the pairwise
// intersections with runs of other, clipped to window. Both trees hold
// disjoint runs, so no time is counted twice.
func (t *Tree) OverlapWithin(other *Tree, window Span) float64 {
	var total float64
	for _, r := range t.Overlapping(window) {
		clipped, ok := r.Intersect(window)
		if !ok {
			continue
		}
		for _, o := range other.Overlapping(clipped) {
			total += clipped.Overlap(o.Span)
		}
	}
	return total
}

// Covered returns the total run length inside window.
func (t *Tree) Covered(window Span) float64 {
	var total float64
	for _, r := range t.Overlapping(window) {
		total += r.Overlap(window)
	}
	return total
}
