package mapping

import "diareval/internal/interval"

// Matrix holds the co-occurrence time of every reference/hypothesis label
// pair. Rows follow Reference and columns follow Hypothesis, both sorted.
type Matrix struct {
	Reference  []string
	Hypothesis []string
	Overlap    [][]float64
}

// NewMatrix sums, for each label pair, the intersection length of every pair
// of intervals whose ranges overlap. Each label's timeline is merged first so
// a label overlapping itself is not counted twice.
func NewMatrix(ref, hyp interval.Recording) Matrix {
	m := Matrix{Reference: ref.Labels(), Hypothesis: hyp.Labels()}
	hypRuns := make([][]interval.Span, len(m.Hypothesis))
	for j, label := range m.Hypothesis {
		hypRuns[j] = interval.Spans(interval.Merge(hyp[label]))
	}
	m.Overlap = make([][]float64, len(m.Reference))
	for i, label := range m.Reference {
		refRuns := interval.Spans(interval.Merge(ref[label]))
		row := make([]float64, len(m.Hypothesis))
		for j := range m.Hypothesis {
			row[j] = interval.OverlapTotal(refRuns, hypRuns[j])
		}
		m.Overlap[i] = row
	}
	return m
}

// Optimal aligns hypothesis labels to reference labels, maximizing the total
// matched overlap. Pairs with no overlap are left unmapped.
func Optimal(ref, hyp interval.Recording) (Mapping, error) {
	matrix := NewMatrix(ref, hyp)
	assignment, err := Solve(matrix.Overlap)
	if err != nil {
		return Mapping{}, err
	}
	pairs := make([]Pair, 0, len(assignment))
	for row, col := range assignment {
		if col < 0 {
			continue
		}
		overlap := matrix.Overlap[row][col]
		if overlap <= 0 {
			continue
		}
		pairs = append(pairs, Pair{
			Hypothesis: matrix.Hypothesis[col],
			Reference:  matrix.Reference[row],
			Overlap:    overlap,
		})
	}
	return FromPairs(pairs...)
}
