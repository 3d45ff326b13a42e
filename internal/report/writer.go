package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"diareval/internal/corpusstats"
	"diareval/internal/evaluate"
	"diareval/internal/fileutil"
	"diareval/internal/textutil"
)

// ErrOutputLocked is returned when another run holds the output directory.
var ErrOutputLocked = errors.New("output directory is locked by another run")

// Writer places one run's files in <output_dir>/<name>-<run id>/ while
// holding the output directory lock.
type Writer struct {
	dir  string
	lock *flock.Flock
}

// Open locks outputDir and creates the run directory. name is usually the
// hypothesis file stem; it is sanitized before use. Close releases the lock.
func Open(outputDir, name, runID string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", outputDir, err)
	}
	lock := flock.New(filepath.Join(outputDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, outputDir)
	}

	dir := filepath.Join(outputDir, textutil.SanitizeToken(name)+"-"+textutil.SanitizeToken(runID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create run directory %q: %w", dir, err)
	}
	return &Writer{dir: dir, lock: lock}, nil
}

// Dir is the run directory.
func (w *Writer) Dir() string { return w.dir }

// Write atomically writes one file into the run directory and returns its path.
func (w *Writer) Write(name string, fill func(io.Writer) error) (string, error) {
	path := filepath.Join(w.dir, name)
	if err := fileutil.WriteAtomic(path, 0o644, fill); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// Close releases the output directory lock.
func (w *Writer) Close() error {
	if w == nil || w.lock == nil {
		return nil
	}
	return w.lock.Unlock()
}

// WriteEvaluation writes the scores, mapping, and JSON summary, plus the
// chunk table when any recording was chunked. It returns the written paths.
func (w *Writer) WriteEvaluation(s *evaluate.Summary) ([]string, error) {
	files := []outputFile{
		{ScoresFile, func(out io.Writer) error { return WriteScores(out, s.Results) }},
		{MappingFile, func(out io.Writer) error { return WriteMapping(out, s.Results) }},
		{SummaryFile, func(out io.Writer) error { return WriteJSON(out, NewSummary(s)) }},
	}
	for _, r := range s.Results {
		if len(r.Chunks) > 0 {
			files = append(files, outputFile{ChunksFile, func(out io.Writer) error { return WriteChunks(out, s.Results) }})
			break
		}
	}
	return w.writeAll(files)
}

// WriteStats writes the per-file and per-speaker corpus statistics.
func (w *Writer) WriteStats(stats []corpusstats.File) ([]string, error) {
	return w.writeAll([]outputFile{
		{FileStatsFile, func(out io.Writer) error { return WriteFileStats(out, stats) }},
		{SpeakerStatsFile, func(out io.Writer) error { return WriteSpeakerStats(out, stats) }},
		{StatsSummaryFile, func(out io.Writer) error { return WriteJSON(out, NewFileStats(stats)) }},
	})
}

type outputFile struct {
	name string
	fill func(io.Writer) error
}

func (w *Writer) writeAll(files []outputFile) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path, err := w.Write(f.name, f.fill)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
