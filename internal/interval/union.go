package interval

import (
	"cmp"
	"slices"
)

// UnionDuration returns the time covered by at least one segment. Overlapping
// speech from several speakers is counted once.
func UnionDuration[S Segment](segments []S) float64 {
	if len(segments) == 0 {
		return 0
	}
	spans := make([]Span, 0, len(segments))
	for _, seg := range segments {
		spans = append(spans, seg.Extent())
	}
	slices.SortFunc(spans, func(a, b Span) int { return cmp.Compare(a.Onset, b.Onset) })

	var total float64
	curOn, curOff := spans[0].Onset, spans[0].Offset
	for _, s := range spans[1:] {
		if s.Onset > curOff {
			total += curOff - curOn
			curOn, curOff = s.Onset, s.Offset
			continue
		}
		// touching extends the run
		curOff = max(curOff, s.Offset)
	}
	return total + (curOff - curOn)
}
