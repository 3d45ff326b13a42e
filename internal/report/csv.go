package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"diareval/internal/corpusstats"
	"diareval/internal/evaluate"
	"diareval/internal/roles"
)

// File names written into a run directory.
const (
	ScoresFile        = "scores.csv"
	ChunksFile        = "chunks.csv"
	MappingFile       = "mapping.csv"
	FileStatsFile     = "file_stats.csv"
	SpeakerStatsFile  = "speaker_stats.csv"
	SummaryFile       = "summary.json"
	StatsSummaryFile  = "stats.json"
	lockFileName      = ".diareval.lock"
	scoresTotalsLabel = "total"
)

var scoreHeader = []string{
	"recording", "label", "correct", "fa_speaker", "fa_speech",
	"miss_speaker", "miss_speech", "normalization",
}

// WriteScores writes one row per reference label (plus the unattributed
// false-alarm row when present) and a "total" row for every scored recording.
// Unscored recordings are omitted.
func WriteScores(w io.Writer, results []evaluate.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(scoreHeader); err != nil {
		return err
	}
	for _, r := range results {
		if !r.Scored() {
			continue
		}
		norm := csvFloat(r.Report.Normalization)
		for _, row := range r.Report.Rows {
			if err := cw.Write([]string{
				r.Recording, row.Label,
				csvFloat(row.Correct), csvFloat(row.FASpeaker), csvFloat(row.FASpeech),
				csvFloat(row.MissSpeaker), csvFloat(row.MissSpeech), norm,
			}); err != nil {
				return err
			}
		}
		t := r.Report.Totals
		if err := cw.Write([]string{
			r.Recording, scoresTotalsLabel,
			csvFloat(t.Correct), csvFloat(t.FASpeaker), csvFloat(t.FASpeech),
			csvFloat(t.MissSpeaker), csvFloat(t.MissSpeech), norm,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteChunks writes every chunk of every recording. Labels are joined with
// ";" since they may contain commas.
func WriteChunks(w io.Writer, results []evaluate.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"recording", "start", "end", "true", "false", "miss", "speech", "labels"}); err != nil {
		return err
	}
	for _, r := range results {
		for _, c := range r.Chunks {
			if err := cw.Write([]string{
				r.Recording, csvFloat(c.Start), csvFloat(c.End),
				csvFloat(c.True), csvFloat(c.False), csvFloat(c.Miss), csvFloat(c.Speech),
				strings.Join(c.Labels, ";"),
			}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMapping writes the resolved hypothesis to reference pairs. Recordings
// scored in voice-activity mode contribute no rows.
func WriteMapping(w io.Writer, results []evaluate.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"recording", "hypothesis", "reference", "overlap"}); err != nil {
		return err
	}
	for _, r := range results {
		for _, p := range r.Mapping.Pairs() {
			if err := cw.Write([]string{r.Recording, p.Hypothesis, p.Reference, csvFloat(p.Overlap)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFileStats writes one row per recording with a count column per role.
func WriteFileStats(w io.Writer, files []corpusstats.File) error {
	cw := csv.NewWriter(w)
	header := []string{"recording", "clip_length", "speakers"}
	for _, role := range roles.All {
		header = append(header, "n_"+string(role))
	}
	header = append(header, "segments", "speech", "overlap", "prop_overlap", "prop_non_overlap", "mean_vocalization")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, f := range files {
		row := []string{f.Recording, csvFloat(f.ClipLength), strconv.Itoa(f.Speakers)}
		for _, role := range roles.All {
			row = append(row, strconv.Itoa(f.RoleCounts[role]))
		}
		row = append(row,
			strconv.Itoa(f.Segments), csvFloat(f.Speech), csvFloat(f.Overlap),
			csvFloat(f.PropOverlap), csvFloat(f.PropNonOverlap), csvFloat(f.MeanVocalization),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSpeakerStats writes one row per label per recording.
func WriteSpeakerStats(w io.Writer, files []corpusstats.File) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"recording", "label", "role", "total", "overlapped", "non_overlapped"}); err != nil {
		return err
	}
	for _, f := range files {
		for _, s := range f.PerSpeaker {
			if err := cw.Write([]string{
				f.Recording, s.Label, string(s.Role),
				csvFloat(s.Total), csvFloat(s.Overlapped), csvFloat(s.NonOverlapped),
			}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
