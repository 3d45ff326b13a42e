package interval

import (
	"cmp"
	"maps"
	"slices"
)

// Segment is anything with a time extent: Span, Interval, and Run.
type Segment interface {
	Extent() Span
	labelSet() []string
}

// Run is one disjoint stretch produced by Merge. Labels holds the sorted set
// of labels that contributed to the run; it is kept for audit and never used
// to decide speaker identity.
type Run struct {
	Span
	Labels []string `json:"labels,omitempty"`
}

func (r Run) labelSet() []string { return r.Labels }

// Merge sorts segments by onset and folds overlapping or touching segments
// into disjoint runs.
func Merge[S Segment](segments []S) []Run {
	if len(segments) == 0 {
		return nil
	}
	sorted := make([]Run, 0, len(segments))
	for _, seg := range segments {
		sorted = append(sorted, Run{Span: seg.Extent(), Labels: seg.labelSet()})
	}
	slices.SortStableFunc(sorted, func(a, b Run) int {
		if c := cmp.Compare(a.Onset, b.Onset); c != 0 {
			return c
		}
		return cmp.Compare(a.Offset, b.Offset)
	})

	runs := make([]Run, 0, len(sorted))
	current := sorted[0].Span
	labels := addLabels(nil, sorted[0].Labels)
	for _, next := range sorted[1:] {
		if next.Onset <= current.Offset {
			if next.Offset > current.Offset {
				current.Offset = next.Offset
			}
			labels = addLabels(labels, next.Labels)
			continue
		}
		runs = append(runs, Run{Span: current, Labels: sortedLabels(labels)})
		current = next.Span
		labels = addLabels(nil, next.Labels)
	}
	return append(runs, Run{Span: current, Labels: sortedLabels(labels)})
}

func addLabels(set map[string]struct{}, labels []string) map[string]struct{} {
	if len(labels) == 0 {
		return set
	}
	if set == nil {
		set = make(map[string]struct{}, len(labels))
	}
	for _, label := range labels {
		set[label] = struct{}{}
	}
	return set
}

func sortedLabels(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(set))
}

// Clip restricts runs to the bound, dropping runs entirely outside it.
func Clip(runs []Run, b Bound) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		span, ok := r.Intersect(b.Span())
		if !ok {
			continue
		}
		out = append(out, Run{Span: span, Labels: r.Labels})
	}
	return out
}

// Complement returns the silence within b: the gaps before the first run,
// between runs, and after the last run. An empty input yields the whole bound.
func Complement[S Segment](segments []S, b Bound) []Span {
	runs := Clip(Merge(segments), b)
	out := make([]Span, 0, len(runs)+1)
	cursor := b.Start
	for _, r := range runs {
		if r.Onset > cursor {
			out = append(out, Span{Onset: cursor, Offset: r.Onset})
		}
		if r.Offset > cursor {
			cursor = r.Offset
		}
	}
	if cursor < b.End {
		out = append(out, Span{Onset: cursor, Offset: b.End})
	}
	return out
}

// Spans drops the label sets of runs.
func Spans(runs []Run) []Span {
	out := make([]Span, len(runs))
	for i, r := range runs {
		out[i] = r.Span
	}
	return out
}

// Total sums segment durations without merging.
func Total[S Segment](segments []S) float64 {
	var total float64
	for _, seg := range segments {
		total += seg.Extent().Duration()
	}
	return total
}

// Intersect walks two sorted, disjoint span lists and returns every positive
// intersection in order. Inputs must come from Merge, Complement, or Clip.
func Intersect(a, b []Span) []Span {
	var out []Span
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if span, ok := a[i].Intersect(b[j]); ok {
			out = append(out, span)
		}
		if a[i].Offset < b[j].Offset {
			i++
		} else {
			j++
		}
	}
	return out
}

// OverlapTotal is the summed length of Intersect(a, b).
func OverlapTotal(a, b []Span) float64 {
	return Total(Intersect(a, b))
}
