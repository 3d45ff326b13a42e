// Package corpusstats summarizes how much, and how overlapped, speech a
// reference annotation contains.
package corpusstats

import (
	"cmp"
	"math"
	"slices"

	"diareval/internal/interval"
	"diareval/internal/roles"
)

// File holds the statistics for one recording.
type File struct {
	Recording  string             `json:"recording"`
	ClipLength float64            `json:"clip_length"`
	Speakers   int                `json:"speakers"`
	RoleCounts map[roles.Role]int `json:"role_counts"`
	Segments   int                `json:"segments"`
	Speech     float64            `json:"speech"`
	Overlap    float64            `json:"overlap"`
	// PropOverlap and PropNonOverlap are fractions of Speech; NaN without speech.
	PropOverlap    float64 `json:"prop_overlap"`
	PropNonOverlap float64 `json:"prop_non_overlap"`
	// MeanVocalization is the mean segment length; NaN without segments.
	MeanVocalization float64   `json:"mean_vocalization"`
	PerSpeaker       []Speaker `json:"speakers_detail"`
}

// Speaker holds one label's share of a recording.
type Speaker struct {
	Label         string     `json:"label"`
	Role          roles.Role `json:"role"`
	Total         float64    `json:"total"`
	Overlapped    float64    `json:"overlapped"`
	NonOverlapped float64    `json:"non_overlapped"`
}

// Compute summarizes rec within bound. Each label is merged first so a label
// overlapping itself never counts as overlapped speech.
func Compute(recording string, rec interval.Recording, bound interval.Bound, roleMap *roles.Map) File {
	labels := rec.Labels()
	runs := make(map[string][]interval.Span, len(labels))
	segments := 0
	var vocalized float64
	for _, label := range labels {
		runs[label] = interval.Spans(interval.Clip(interval.Merge(rec[label]), bound))
		for _, iv := range rec[label] {
			if clipped, ok := iv.Intersect(bound.Span()); ok {
				segments++
				vocalized += clipped.Duration()
			}
		}
	}

	overlapped := overlapRegions(runs)
	speech := interval.UnionDuration(interval.Clip(interval.Merge(rec.All()), bound))
	overlap := interval.Total(overlapped)

	file := File{
		Recording:        recording,
		ClipLength:       bound.Duration(),
		Speakers:         len(labels),
		RoleCounts:       roleMap.Count(labels),
		Segments:         segments,
		Speech:           speech,
		Overlap:          overlap,
		PropOverlap:      math.NaN(),
		PropNonOverlap:   math.NaN(),
		MeanVocalization: math.NaN(),
	}
	if speech > 0 {
		file.PropOverlap = overlap / speech
		file.PropNonOverlap = (speech - overlap) / speech
	}
	if segments > 0 {
		file.MeanVocalization = vocalized / float64(segments)
	}
	for _, label := range labels {
		total := interval.Total(runs[label])
		ovl := interval.OverlapTotal(runs[label], overlapped)
		file.PerSpeaker = append(file.PerSpeaker, Speaker{
			Label:         label,
			Role:          roleMap.Lookup(label),
			Total:         total,
			Overlapped:    ovl,
			NonOverlapped: total - ovl,
		})
	}
	return file
}

type event struct {
	at    float64
	delta int
}

// overlapRegions sweeps run boundaries and returns the disjoint spans where
// at least two labels speak at once. Ends sort before starts at the same
// instant so touching runs do not overlap.
func overlapRegions(runs map[string][]interval.Span) []interval.Span {
	var events []event
	for _, spans := range runs {
		for _, s := range spans {
			events = append(events, event{at: s.Onset, delta: 1}, event{at: s.Offset, delta: -1})
		}
	}
	slices.SortFunc(events, func(a, b event) int {
		if c := cmp.Compare(a.at, b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.delta, b.delta)
	})

	var out []interval.Span
	active := 0
	var start float64
	for _, ev := range events {
		before := active
		active += ev.delta
		switch {
		case before < 2 && active >= 2:
			start = ev.at
		case before >= 2 && active < 2:
			if ev.at > start {
				if n := len(out); n > 0 && out[n-1].Offset == start {
					out[n-1].Offset = ev.at
				} else {
					out = append(out, interval.Span{Onset: start, Offset: ev.at})
				}
			}
		}
	}
	return out
}
