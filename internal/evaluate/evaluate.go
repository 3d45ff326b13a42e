package evaluate

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"diareval/internal/chunk"
	"diareval/internal/config"
	"diareval/internal/confusion"
	"diareval/internal/interval"
	"diareval/internal/logging"
	"diareval/internal/mapping"
)

// Options controls one batch.
type Options struct {
	Normalize     bool
	VoiceActivity bool
	// ChunkSeconds enables per-window evaluation when positive.
	ChunkSeconds float64
	Workers      int
	// EmptyMissingHypothesis scores recordings absent from the hypothesis
	// against an empty hypothesis instead of skipping them.
	EmptyMissingHypothesis bool
	WavDir                 string
}

// OptionsFromConfig maps the [evaluation] and [paths] sections onto Options.
// Chunking stays off; callers that want chunks set ChunkSeconds.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Normalize:              cfg.Evaluation.Normalize,
		VoiceActivity:          cfg.Evaluation.VoiceActivity,
		Workers:                cfg.Evaluation.Workers,
		EmptyMissingHypothesis: !cfg.SkipMissingHypothesis(),
		WavDir:                 cfg.Paths.WavDir,
	}
}

// Input is the parsed material for one batch.
type Input struct {
	Reference  interval.Annotation
	Hypothesis interval.Annotation
	// Bounds holds UEM entries; recordings without one fall back to WAV
	// length and then to the last annotated offset.
	Bounds map[string]interval.Bound
}

// Result is the outcome for one recording.
type Result struct {
	Recording   string
	Bound       interval.Bound
	BoundSource BoundSource
	Mapping     mapping.Mapping
	Report      confusion.Report
	Chunks      []chunk.Result
	ChunkTotals chunk.Result
	// Err is set when the recording could not be scored, or to a
	// *DegenerateNormalizationError when it was scored with NaN buckets.
	Err error
}

// Scored reports whether Report holds a breakdown.
func (r Result) Scored() bool {
	var degenerate *DegenerateNormalizationError
	return r.Err == nil || errors.As(r.Err, &degenerate)
}

// Summary is the outcome of a batch.
type Summary struct {
	RunID   string
	Started time.Time
	Elapsed time.Duration
	Results []Result
	// Skipped lists recordings present in only one annotation.
	Skipped    []*MissingRecordingError
	Degenerate int
	Failed     int
}

// Scored returns the results that carry a breakdown, in recording order.
func (s *Summary) Scored() []Result {
	out := make([]Result, 0, len(s.Results))
	for _, r := range s.Results {
		if r.Scored() {
			out = append(out, r)
		}
	}
	return out
}

// Run scores every recording of in.Reference against in.Hypothesis. It
// returns an error only when ctx is cancelled; per-recording problems are
// carried on the results.
func Run(ctx context.Context, in Input, opts Options, logger *slog.Logger) (*Summary, error) {
	if opts.ChunkSeconds != 0 {
		if err := chunk.ValidateSize(opts.ChunkSeconds); err != nil {
			return nil, err
		}
	}
	summary := &Summary{RunID: uuid.NewString(), Started: time.Now()}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "evaluate"))

	recordings, skipped := plan(in, opts)
	summary.Skipped = skipped
	for _, miss := range skipped {
		logging.WarnWithContext(logger, "recording skipped", "missing_recording",
			logging.String(logging.FieldRecording, miss.Recording),
			logging.String("missing_from", miss.MissingFrom),
			logging.String(logging.FieldErrorHint, "check that both annotations cover the same recordings"),
		)
	}

	logger.Info("evaluation started",
		logging.Int("recordings", len(recordings)),
		logging.Int("skipped", len(skipped)),
		logging.Bool("normalize", opts.Normalize),
		logging.Bool("voice_activity", opts.VoiceActivity),
	)

	results, err := fanOut(ctx, recordings, max(opts.Workers, 1), logger, func(ctx context.Context, rec string) Result {
		return scoreRecording(ctx, rec, in, opts, logger)
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b Result) int { return cmp.Compare(a.Recording, b.Recording) })
	summary.Results = results

	for _, r := range results {
		var degenerate *DegenerateNormalizationError
		switch {
		case r.Err == nil:
		case errors.As(r.Err, &degenerate):
			summary.Degenerate++
		default:
			summary.Failed++
		}
	}
	summary.Elapsed = time.Since(summary.Started)
	logger.Info("evaluation finished",
		logging.Int("scored", len(results)-summary.Failed),
		logging.Int("failed", summary.Failed),
		logging.Int("degenerate", summary.Degenerate),
		logging.Int("skipped", len(summary.Skipped)),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

// plan lists the recordings to score and the ones to skip, both sorted.
func plan(in Input, opts Options) ([]string, []*MissingRecordingError) {
	var recordings []string
	var skipped []*MissingRecordingError
	for _, rec := range in.Reference.Recordings() {
		if _, ok := in.Hypothesis[rec]; ok || opts.EmptyMissingHypothesis {
			recordings = append(recordings, rec)
			continue
		}
		skipped = append(skipped, &MissingRecordingError{Recording: rec, MissingFrom: "hypothesis"})
	}
	for _, rec := range in.Hypothesis.Recordings() {
		if _, ok := in.Reference[rec]; !ok {
			skipped = append(skipped, &MissingRecordingError{Recording: rec, MissingFrom: "reference"})
		}
	}
	slices.SortFunc(skipped, func(a, b *MissingRecordingError) int { return cmp.Compare(a.Recording, b.Recording) })
	return recordings, skipped
}

func fanOut(ctx context.Context, recordings []string, workers int, logger *slog.Logger, score func(context.Context, string) Result) ([]Result, error) {
	jobs := make(chan string)
	out := make(chan Result)
	var wg sync.WaitGroup
	for range min(workers, max(len(recordings), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				out <- score(ctx, rec)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, rec := range recordings {
			select {
			case jobs <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(out)
	}()

	sampler := logging.NewProgressSampler(10)
	results := make([]Result, 0, len(recordings))
	for r := range out {
		results = append(results, r)
		if sampler.ShouldLog(len(results), len(recordings)) {
			logger.Info("evaluation progress",
				logging.Int("done", len(results)),
				logging.Int("total", len(recordings)),
			)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation interrupted: %w", err)
	}
	return results, nil
}

func scoreRecording(ctx context.Context, rec string, in Input, opts Options, logger *slog.Logger) Result {
	res := Result{Recording: rec}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	// logger already carries the run id from Run.
	log := logger.With(logging.String(logging.FieldRecording, rec))
	ref, hyp := in.Reference[rec], in.Hypothesis[rec]
	if hyp == nil {
		hyp = interval.Recording{}
	}

	bound, source, err := ResolveBound(rec, ref, hyp, in.Bounds, opts.WavDir)
	if err != nil {
		res.Err = err
		logging.ErrorWithContext(log, "bound resolution failed", "bound_failed", logging.Error(err))
		return res
	}
	res.Bound, res.BoundSource = bound, source

	m := mapping.None()
	if !opts.VoiceActivity {
		if m, err = mapping.Optimal(ref, hyp); err != nil {
			res.Err = err
			logging.ErrorWithContext(log, "speaker mapping failed", "mapping_failed", logging.Error(err))
			return res
		}
	}
	res.Mapping = m

	report, err := confusion.Accumulate(ref, hyp, m, bound, confusion.Options{
		Normalize:     opts.Normalize,
		VoiceActivity: opts.VoiceActivity,
	})
	if err != nil {
		res.Err = err
		logging.ErrorWithContext(log, "confusion accounting failed", "accounting_failed", logging.Error(err))
		return res
	}
	res.Report = report
	if report.Degenerate {
		res.Err = &DegenerateNormalizationError{Recording: rec}
		logging.WarnWithContext(log, "no reference speech to normalize by", "degenerate_normalization",
			logging.String(logging.FieldImpact, "all buckets reported as NaN"),
			logging.String(logging.FieldErrorHint, "disable evaluation.normalize or check the reference annotation"),
		)
	}

	if opts.ChunkSeconds > 0 {
		evaluator := chunk.NewEvaluator(ref.All(), hyp.All(), bound)
		res.Chunks = slices.Collect(evaluator.Chunks(opts.ChunkSeconds))
		res.ChunkTotals = evaluator.Totals()
	}

	log.Debug("recording scored",
		logging.String("bound_source", string(source)),
		logging.Float64("bound_start", bound.Start),
		logging.Float64("bound_end", bound.End),
		logging.Int("mapped_pairs", m.Len()),
		logging.Float64("correct", report.Totals.Correct),
		logging.Int("chunks", len(res.Chunks)),
	)
	return res
}
