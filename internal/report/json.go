package report

import (
	"encoding/json"
	"io"
	"time"

	"diareval/internal/chunk"
	"diareval/internal/confusion"
	"diareval/internal/corpusstats"
	"diareval/internal/evaluate"
	"diareval/internal/mapping"
	"diareval/internal/roles"
)

// Summary is the JSON form of an evaluation batch.
type Summary struct {
	RunID      string      `json:"run_id"`
	Started    time.Time   `json:"started"`
	Elapsed    Float       `json:"elapsed_seconds"`
	Recordings []Recording `json:"recordings"`
	Skipped    []Skipped   `json:"skipped,omitempty"`
	Failed     []Failure   `json:"failed,omitempty"`
	Degenerate int         `json:"degenerate"`
}

// Recording is one scored recording.
type Recording struct {
	Recording     string         `json:"recording"`
	BoundStart    Float          `json:"bound_start"`
	BoundEnd      Float          `json:"bound_end"`
	BoundSource   string         `json:"bound_source"`
	Normalization Float          `json:"normalization"`
	Degenerate    bool           `json:"degenerate"`
	VoiceActivity bool           `json:"voice_activity"`
	Rows          []Row          `json:"rows"`
	Totals        Row            `json:"totals"`
	Mapping       []mapping.Pair `json:"mapping,omitempty"`
	Chunks        []chunk.Result `json:"chunks,omitempty"`
	ChunkTotals   *chunk.Result  `json:"chunk_totals,omitempty"`
}

// Row mirrors confusion.Row with null-safe floats.
type Row struct {
	Label       string `json:"label"`
	Correct     Float  `json:"correct"`
	FASpeaker   Float  `json:"fa_speaker"`
	FASpeech    Float  `json:"fa_speech"`
	MissSpeaker Float  `json:"miss_speaker"`
	MissSpeech  Float  `json:"miss_speech"`
}

// Skipped names a recording present in only one annotation.
type Skipped struct {
	Recording   string `json:"recording"`
	MissingFrom string `json:"missing_from"`
}

// Failure names a recording that could not be scored.
type Failure struct {
	Recording string `json:"recording"`
	Kind      string `json:"kind"`
	Error     string `json:"error"`
}

// NewSummary converts an evaluation summary for JSON output.
func NewSummary(s *evaluate.Summary) Summary {
	out := Summary{
		RunID:      s.RunID,
		Started:    s.Started,
		Elapsed:    Float(s.Elapsed.Seconds()),
		Recordings: []Recording{},
		Degenerate: s.Degenerate,
	}
	for _, miss := range s.Skipped {
		out.Skipped = append(out.Skipped, Skipped{Recording: miss.Recording, MissingFrom: miss.MissingFrom})
	}
	for _, r := range s.Results {
		if !r.Scored() {
			out.Failed = append(out.Failed, Failure{
				Recording: r.Recording,
				Kind:      evaluate.Kind(r.Err),
				Error:     r.Err.Error(),
			})
			continue
		}
		rec := Recording{
			Recording:     r.Recording,
			BoundStart:    Float(r.Bound.Start),
			BoundEnd:      Float(r.Bound.End),
			BoundSource:   string(r.BoundSource),
			Normalization: Float(r.Report.Normalization),
			Degenerate:    r.Report.Degenerate,
			VoiceActivity: r.Report.VoiceActivity,
			Rows:          make([]Row, 0, len(r.Report.Rows)),
			Totals:        newRow(r.Report.Totals),
			Mapping:       r.Mapping.Pairs(),
			Chunks:        r.Chunks,
		}
		for _, row := range r.Report.Rows {
			rec.Rows = append(rec.Rows, newRow(row))
		}
		if len(r.Chunks) > 0 {
			totals := r.ChunkTotals
			rec.ChunkTotals = &totals
		}
		out.Recordings = append(out.Recordings, rec)
	}
	return out
}

func newRow(r confusion.Row) Row {
	return Row{
		Label:       r.Label,
		Correct:     Float(r.Correct),
		FASpeaker:   Float(r.FASpeaker),
		FASpeech:    Float(r.FASpeech),
		MissSpeaker: Float(r.MissSpeaker),
		MissSpeech:  Float(r.MissSpeech),
	}
}

// FileStats is the JSON form of corpusstats.File.
type FileStats struct {
	Recording        string         `json:"recording"`
	ClipLength       Float          `json:"clip_length"`
	Speakers         int            `json:"speakers"`
	RoleCounts       map[string]int `json:"role_counts"`
	Segments         int            `json:"segments"`
	Speech           Float          `json:"speech"`
	Overlap          Float          `json:"overlap"`
	PropOverlap      Float          `json:"prop_overlap"`
	PropNonOverlap   Float          `json:"prop_non_overlap"`
	MeanVocalization Float          `json:"mean_vocalization"`
	PerSpeaker       []SpeakerStats `json:"per_speaker"`
}

// SpeakerStats is the JSON form of corpusstats.Speaker.
type SpeakerStats struct {
	Label         string `json:"label"`
	Role          string `json:"role"`
	Total         Float  `json:"total"`
	Overlapped    Float  `json:"overlapped"`
	NonOverlapped Float  `json:"non_overlapped"`
}

// NewFileStats converts corpus statistics for JSON output. Every role gets a
// count, zero included.
func NewFileStats(files []corpusstats.File) []FileStats {
	out := make([]FileStats, 0, len(files))
	for _, f := range files {
		fs := FileStats{
			Recording:        f.Recording,
			ClipLength:       Float(f.ClipLength),
			Speakers:         f.Speakers,
			RoleCounts:       make(map[string]int, len(roles.All)),
			Segments:         f.Segments,
			Speech:           Float(f.Speech),
			Overlap:          Float(f.Overlap),
			PropOverlap:      Float(f.PropOverlap),
			PropNonOverlap:   Float(f.PropNonOverlap),
			MeanVocalization: Float(f.MeanVocalization),
			PerSpeaker:       make([]SpeakerStats, 0, len(f.PerSpeaker)),
		}
		for _, role := range roles.All {
			fs.RoleCounts[string(role)] = f.RoleCounts[role]
		}
		for _, s := range f.PerSpeaker {
			fs.PerSpeaker = append(fs.PerSpeaker, SpeakerStats{
				Label:         s.Label,
				Role:          string(s.Role),
				Total:         Float(s.Total),
				Overlapped:    Float(s.Overlapped),
				NonOverlapped: Float(s.NonOverlapped),
			})
		}
		out = append(out, fs)
	}
	return out
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
