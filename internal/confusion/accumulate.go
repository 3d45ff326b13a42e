package confusion

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"diareval/internal/interval"
	"diareval/internal/mapping"
)

// Unattributed collects false-alarm speech from hypothesis labels that map to
// no reference label, including every hypothesis label in voice-activity mode.
const Unattributed = "*"

// consistencyTolerance bounds the disagreement allowed between the
// reference-driven and hypothesis-driven correct totals.
const consistencyTolerance = 1e-6

// ErrInconsistentAccounting signals that the two independently computed
// correct totals diverged, which can only come from a logic defect.
var ErrInconsistentAccounting = errors.New("confusion accounting is inconsistent")

// Options selects the accounting variant.
type Options struct {
	// Normalize divides every bucket by the reference speech duration.
	Normalize bool
	// VoiceActivity ignores speaker identity; speaker buckets become NaN.
	VoiceActivity bool
}

// Row is the breakdown for one reference label.
type Row struct {
	Label       string  `json:"label"`
	Correct     float64 `json:"correct"`
	FASpeaker   float64 `json:"fa_speaker"`
	FASpeech    float64 `json:"fa_speech"`
	MissSpeaker float64 `json:"miss_speaker"`
	MissSpeech  float64 `json:"miss_speech"`
}

// Buckets holds the raw, unnormalized accumulators.
type Buckets struct {
	Correct     Durations
	FASpeaker   Durations
	FASpeech    Durations
	MissSpeaker Durations
	MissSpeech  Durations
}

// Report is the finalized breakdown for one recording.
type Report struct {
	Rows   []Row `json:"rows"`
	Totals Row   `json:"totals"`
	// Normalization is the reference speech duration the rows were divided
	// by, or 1 for raw seconds.
	Normalization float64 `json:"normalization"`
	// Degenerate is set when normalization was requested but the reference
	// holds no speech; every bucket is NaN.
	Degenerate    bool            `json:"degenerate"`
	VoiceActivity bool            `json:"voice_activity"`
	Mapping       mapping.Mapping `json:"-"`
	Raw           Buckets         `json:"-"`
}

// Row returns the row for label.
func (r Report) Row(label string) (Row, bool) {
	for _, row := range r.Rows {
		if row.Label == label {
			return row, true
		}
	}
	return Row{}, false
}

// Accumulate scores hyp against ref within bound. Every label's timeline is
// merged and clipped to the bound first. When opts.VoiceActivity is set or m
// is the None sentinel, identity accounting is skipped.
//
// Normalized values can exceed 1 when hypothesis speakers overlap heavily in
// reference silence; they are reported as computed.
func Accumulate(ref, hyp interval.Recording, m mapping.Mapping, bound interval.Bound, opts Options) (Report, error) {
	voiceActivity := opts.VoiceActivity || m.IsNone()
	if voiceActivity {
		m = mapping.None()
	}

	refLabels, hypLabels := ref.Labels(), hyp.Labels()
	refRuns := clippedByLabel(ref, bound)
	hypRuns := clippedByLabel(hyp, bound)
	refSpeech := interval.Spans(interval.Clip(interval.Merge(ref.All()), bound))
	hypSpeech := interval.Spans(interval.Clip(interval.Merge(hyp.All()), bound))
	refSilence := interval.Complement(ref.All(), bound)
	hypSilence := interval.Complement(hyp.All(), bound)

	var raw Buckets
	var correctByHyp Durations

	if voiceActivity {
		for _, r := range refLabels {
			raw.Correct.Add(r, interval.OverlapTotal(refRuns[r], hypSpeech))
		}
		for _, r := range refLabels {
			correctByHyp.Add(r, interval.OverlapTotal(hypSpeech, refRuns[r]))
		}
	} else {
		for _, r := range refLabels {
			raw.Correct.Add(r, 0)
			raw.MissSpeaker.Add(r, 0)
			for _, h := range hypLabels {
				d := interval.OverlapTotal(refRuns[r], hypRuns[h])
				if m.Maps(h, r) {
					raw.Correct.Add(r, d)
				} else {
					raw.MissSpeaker.Add(r, d)
				}
			}
		}
		for _, h := range hypLabels {
			for _, r := range refLabels {
				d := interval.OverlapTotal(hypRuns[h], refRuns[r])
				if m.Maps(h, r) {
					correctByHyp.Add(r, d)
				} else {
					raw.FASpeaker.Add(r, d)
				}
			}
		}
	}

	for _, r := range refLabels {
		byRef, byHyp := raw.Correct.Get(r), correctByHyp.Get(r)
		if math.Abs(byRef-byHyp) > consistencyTolerance {
			return Report{}, fmt.Errorf("%w: label %q: reference-driven correct %g, hypothesis-driven %g",
				ErrInconsistentAccounting, r, byRef, byHyp)
		}
	}

	for _, r := range refLabels {
		raw.MissSpeech.Add(r, interval.OverlapTotal(refRuns[r], hypSilence))
	}
	if voiceActivity {
		if d := interval.OverlapTotal(hypSpeech, refSilence); d > 0 {
			raw.FASpeech.Add(Unattributed, d)
		}
	} else {
		for _, h := range hypLabels {
			d := interval.OverlapTotal(hypRuns[h], refSilence)
			if target, ok := m.Reference(h); ok {
				raw.FASpeech.Add(target, d)
			} else if d > 0 {
				raw.FASpeech.Add(Unattributed, d)
			}
		}
	}

	norm := 1.0
	degenerate := false
	if opts.Normalize {
		norm = interval.UnionDuration(refSpeech)
		degenerate = norm == 0
	}

	report := Report{
		Normalization: norm,
		Degenerate:    degenerate,
		VoiceActivity: voiceActivity,
		Mapping:       m,
		Raw:           raw,
	}
	scale := func(v float64) float64 {
		if degenerate {
			return math.NaN()
		}
		return v / norm
	}

	labels := slices.Clone(refLabels)
	if raw.FASpeech.Has(Unattributed) {
		labels = append(labels, Unattributed)
	}
	report.Totals.Label = "total"
	for _, label := range labels {
		row := Row{
			Label:       label,
			Correct:     scale(raw.Correct.Get(label)),
			FASpeaker:   scale(raw.FASpeaker.Get(label)),
			FASpeech:    scale(raw.FASpeech.Get(label)),
			MissSpeaker: scale(raw.MissSpeaker.Get(label)),
			MissSpeech:  scale(raw.MissSpeech.Get(label)),
		}
		if voiceActivity {
			row.FASpeaker = math.NaN()
			row.MissSpeaker = math.NaN()
		}
		report.Rows = append(report.Rows, row)
		report.Totals.Correct += row.Correct
		report.Totals.FASpeaker += row.FASpeaker
		report.Totals.FASpeech += row.FASpeech
		report.Totals.MissSpeaker += row.MissSpeaker
		report.Totals.MissSpeech += row.MissSpeech
	}
	if voiceActivity {
		report.Totals.FASpeaker = math.NaN()
		report.Totals.MissSpeaker = math.NaN()
	}
	return report, nil
}

func clippedByLabel(rec interval.Recording, bound interval.Bound) map[string][]interval.Span {
	out := make(map[string][]interval.Span, len(rec))
	for label, tl := range rec {
		out[label] = interval.Spans(interval.Clip(interval.Merge(tl), bound))
	}
	return out
}
