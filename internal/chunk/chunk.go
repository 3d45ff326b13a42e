package chunk

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"diareval/internal/interval"
)

// ErrInvalidChunkSize rejects zero, negative, or non-finite window sizes.
var ErrInvalidChunkSize = errors.New("chunk size must be positive and finite")

// Result is the detection breakdown for one window.
type Result struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	// True is reference speech also covered by hypothesis speech.
	True float64 `json:"true"`
	// False is hypothesis speech over reference silence.
	False float64 `json:"false"`
	// Miss is reference speech over hypothesis silence.
	Miss float64 `json:"miss"`
	// Speech is the reference speech inside the window.
	Speech float64 `json:"speech"`
	// Labels lists the reference labels active in the window.
	Labels []string `json:"labels"`
}

// Evaluator answers window queries for one recording.
type Evaluator struct {
	bound      interval.Bound
	refSpeech  *interval.Tree
	hypSpeech  *interval.Tree
	refSilence *interval.Tree
	hypSilence *interval.Tree
	byLabel    map[string]*interval.Tree
	labels     []string
}

// NewEvaluator clips ref and hyp to bound and builds the trees.
func NewEvaluator(ref, hyp interval.Timeline, bound interval.Bound) *Evaluator {
	e := &Evaluator{
		bound:      bound,
		refSpeech:  interval.NewTree(interval.Clip(interval.Merge(ref), bound)),
		hypSpeech:  interval.NewTree(interval.Clip(interval.Merge(hyp), bound)),
		refSilence: interval.NewTree(interval.Complement(ref, bound)),
		hypSilence: interval.NewTree(interval.Complement(hyp, bound)),
		byLabel:    make(map[string]*interval.Tree),
	}
	grouped := make(map[string]interval.Timeline)
	for _, iv := range ref {
		grouped[iv.Label] = append(grouped[iv.Label], iv)
	}
	for label, tl := range grouped {
		e.byLabel[label] = interval.NewTree(interval.Clip(interval.Merge(tl), bound))
		e.labels = append(e.labels, label)
	}
	slices.Sort(e.labels)
	return e
}

// Window computes the breakdown for w.
func (e *Evaluator) Window(w interval.Span) Result {
	res := Result{
		Start:  w.Onset,
		End:    w.Offset,
		True:   e.refSpeech.OverlapWithin(e.hypSpeech, w),
		False:  e.refSilence.OverlapWithin(e.hypSpeech, w),
		Miss:   e.hypSilence.OverlapWithin(e.refSpeech, w),
		Speech: e.refSpeech.Covered(w),
		Labels: []string{},
	}
	for _, label := range e.labels {
		if e.byLabel[label].Covered(w) > 0 {
			res.Labels = append(res.Labels, label)
		}
	}
	return res
}

// Chunks streams one Result per window of the given size.
func (e *Evaluator) Chunks(size float64) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		for w := range Windows(e.bound, size) {
			if !yield(e.Window(w)) {
				return
			}
		}
	}
}

// Totals is the breakdown over the whole bound.
func (e *Evaluator) Totals() Result {
	return e.Window(e.bound.Span())
}

// ValidateSize reports whether size can partition a bound.
func ValidateSize(size float64) error {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidChunkSize, size)
	}
	return nil
}

// Windows yields left-aligned, non-overlapping windows covering bound. Each
// start is computed as bound.Start + i*size so rounding never accumulates;
// the last window is truncated at bound.End. An invalid size yields nothing.
func Windows(bound interval.Bound, size float64) iter.Seq[interval.Span] {
	return func(yield func(interval.Span) bool) {
		if ValidateSize(size) != nil {
			return
		}
		for i := 0; ; i++ {
			start := bound.Start + float64(i)*size
			if start >= bound.End {
				return
			}
			end := min(bound.Start+float64(i+1)*size, bound.End)
			if !yield(interval.Span{Onset: start, Offset: end}) {
				return
			}
		}
	}
}

// Evaluate streams per-window results for ref against hyp within bound.
func Evaluate(ref, hyp interval.Timeline, bound interval.Bound, size float64) (iter.Seq[Result], error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	return NewEvaluator(ref, hyp, bound).Chunks(size), nil
}

// Totals computes the unchunked breakdown for ref against hyp within bound.
func Totals(ref, hyp interval.Timeline, bound interval.Bound) Result {
	return NewEvaluator(ref, hyp, bound).Totals()
}

// Sum adds the duration fields of results. Start and End span the inputs.
func Sum(results iter.Seq[Result]) Result {
	var total Result
	first := true
	for r := range results {
		if first {
			total.Start = r.Start
			first = false
		}
		total.End = r.End
		total.True += r.True
		total.False += r.False
		total.Miss += r.Miss
		total.Speech += r.Speech
	}
	return total
}
