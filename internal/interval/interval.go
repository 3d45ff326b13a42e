package interval

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Span is a half-open time range [Onset, Offset) in seconds.
type Span struct {
	Onset  float64 `json:"onset"`
	Offset float64 `json:"offset"`
}

// Extent returns the span itself so Span satisfies Segment.
func (s Span) Extent() Span { return s }

func (s Span) labelSet() []string { return nil }

// Duration returns Offset-Onset, or 0 for an empty span.
func (s Span) Duration() float64 {
	if s.Offset <= s.Onset {
		return 0
	}
	return s.Offset - s.Onset
}

// Overlap returns the length of the intersection of s and o.
func (s Span) Overlap(o Span) float64 {
	lo := math.Max(s.Onset, o.Onset)
	hi := math.Min(s.Offset, o.Offset)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Overlaps reports whether s and o share a range of positive length.
func (s Span) Overlaps(o Span) bool {
	return s.Onset < o.Offset && o.Onset < s.Offset
}

// Intersect returns the common part of s and o. The boolean is false when the
// intersection is empty.
func (s Span) Intersect(o Span) (Span, bool) {
	out := Span{Onset: math.Max(s.Onset, o.Onset), Offset: math.Min(s.Offset, o.Offset)}
	if out.Offset <= out.Onset {
		return Span{}, false
	}
	return out, true
}

// Interval is one labelled annotation segment.
type Interval struct {
	Span
	Label string `json:"label"`
}

func (i Interval) labelSet() []string {
	if i.Label == "" {
		return nil
	}
	return []string{i.Label}
}

// New validates and builds an interval. Negative onsets, offsets at or before
// the onset, and non-finite values are rejected with *MalformedIntervalError.
func New(onset, offset float64, label string) (Interval, error) {
	if reason := invalidReason(onset, offset); reason != "" {
		return Interval{}, &MalformedIntervalError{Onset: onset, Offset: offset, Label: label, Reason: reason}
	}
	return Interval{Span: Span{Onset: onset, Offset: offset}, Label: label}, nil
}

// MustNew is New for literals known to be valid. It panics otherwise.
func MustNew(onset, offset float64, label string) Interval {
	iv, err := New(onset, offset, label)
	if err != nil {
		panic(err)
	}
	return iv
}

func invalidReason(onset, offset float64) string {
	switch {
	case math.IsNaN(onset) || math.IsInf(onset, 0):
		return "onset is not finite"
	case math.IsNaN(offset) || math.IsInf(offset, 0):
		return "offset is not finite"
	case onset < 0:
		return "onset is negative"
	case offset <= onset:
		return "offset must be greater than onset"
	}
	return ""
}

// MalformedIntervalError reports an interval that violates 0 <= onset < offset.
type MalformedIntervalError struct {
	Onset  float64
	Offset float64
	Label  string
	Reason string
}

func (e *MalformedIntervalError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("malformed interval [%g, %g) for %q: %s", e.Onset, e.Offset, e.Label, e.Reason)
	}
	return fmt.Sprintf("malformed interval [%g, %g): %s", e.Onset, e.Offset, e.Reason)
}

// ErrorKind classifies the error for callers that map failures to outcomes.
func (e *MalformedIntervalError) ErrorKind() string { return "validation" }

// ErrInvalidBound is returned for evaluation bounds with start >= end.
var ErrInvalidBound = errors.New("invalid evaluation bound")

// Bound is the [Start, End) range of a recording over which scoring applies.
type Bound struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// NewBound validates start < end with both values finite.
func NewBound(start, end float64) (Bound, error) {
	if math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(end) || math.IsInf(end, 0) {
		return Bound{}, fmt.Errorf("%w: [%g, %g) is not finite", ErrInvalidBound, start, end)
	}
	if start >= end {
		return Bound{}, fmt.Errorf("%w: start %g is not before end %g", ErrInvalidBound, start, end)
	}
	return Bound{Start: start, End: end}, nil
}

// Span returns the bound as a span.
func (b Bound) Span() Span { return Span{Onset: b.Start, Offset: b.End} }

// Duration returns End-Start.
func (b Bound) Duration() float64 { return b.Span().Duration() }

// Timeline is an ordered sequence of intervals for one recording. It may
// contain overlaps until merged.
type Timeline []Interval

// End returns the largest offset in the timeline, or 0 when empty.
func (t Timeline) End() float64 {
	var end float64
	for _, iv := range t {
		end = math.Max(end, iv.Offset)
	}
	return end
}

// Spans drops labels.
func (t Timeline) Spans() []Span {
	out := make([]Span, len(t))
	for i, iv := range t {
		out[i] = iv.Span
	}
	return out
}

// Recording maps speaker labels to their timelines within one recording.
type Recording map[string]Timeline

// Labels returns the recording's labels in sorted order.
func (r Recording) Labels() []string {
	labels := make([]string, 0, len(r))
	for label := range r {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// All concatenates every label's timeline in label order.
func (r Recording) All() Timeline {
	var out Timeline
	for _, label := range r.Labels() {
		out = append(out, r[label]...)
	}
	return out
}

// End returns the largest offset across all labels.
func (r Recording) End() float64 { return r.All().End() }

// Annotation maps recording ids to their labelled timelines.
type Annotation map[string]Recording

// Add appends iv under recording and iv.Label.
func (a Annotation) Add(recording string, iv Interval) {
	rec, ok := a[recording]
	if !ok {
		rec = Recording{}
		a[recording] = rec
	}
	rec[iv.Label] = append(rec[iv.Label], iv)
}

// Recordings returns recording ids in sorted order.
func (a Annotation) Recordings() []string {
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
