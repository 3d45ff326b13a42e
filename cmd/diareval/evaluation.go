package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"diareval/internal/config"
	"diareval/internal/evaluate"
	"diareval/internal/interval"
	"diareval/internal/logging"
	"diareval/internal/preflight"
	"diareval/internal/report"
	"diareval/internal/rttm"
	"diareval/internal/textutil"
)

// evalFlags are shared by score and chunks. Boolean and numeric flags only
// override the configuration when set on the command line.
type evalFlags struct {
	uemPath       string
	raw           bool
	voiceActivity bool
	workers       int
	outputDir     string
	noFiles       bool
}

func (f *evalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.uemPath, "uem", "", "UEM file with per-recording evaluation bounds")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "Report seconds instead of fractions of reference speech")
	cmd.Flags().BoolVar(&f.voiceActivity, "voice-activity", false, "Ignore speaker identity and score speech/non-speech only")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Recordings scored concurrently")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "Directory for report files (defaults to paths.output_dir)")
	cmd.Flags().BoolVar(&f.noFiles, "no-files", false, "Print results without writing report files")
}

func (f *evalFlags) options(cmd *cobra.Command, cfg *config.Config) evaluate.Options {
	opts := evaluate.OptionsFromConfig(cfg)
	if cmd.Flags().Changed("raw") {
		opts.Normalize = !f.raw
	}
	if cmd.Flags().Changed("voice-activity") {
		opts.VoiceActivity = f.voiceActivity
	}
	if cmd.Flags().Changed("workers") && f.workers > 0 {
		opts.Workers = f.workers
	}
	return opts
}

func (f *evalFlags) resolveOutputDir(cfg *config.Config) (string, error) {
	dir := strings.TrimSpace(f.outputDir)
	if dir == "" {
		return cfg.Paths.OutputDir, nil
	}
	return config.ExpandPath(dir)
}

// evaluation is the outcome of one score or chunks invocation.
type evaluation struct {
	summary *evaluate.Summary
	runDir  string
	files   []string
}

// runEvaluation parses the inputs, scores them, and writes the report files.
func runEvaluation(cmd *cobra.Command, ctx *commandContext, flags *evalFlags, opts evaluate.Options, refPath, hypPath string) (*evaluation, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}

	if err := preflight.CheckInputs(refPath, hypPath, flags.uemPath); err != nil {
		return nil, err
	}
	in, err := loadInput(cfg, logger, refPath, hypPath, flags.uemPath)
	if err != nil {
		return nil, err
	}
	summary, err := evaluate.Run(cmd.Context(), in, opts, logger)
	if err != nil {
		return nil, err
	}
	out := &evaluation{summary: summary}
	if flags.noFiles {
		return out, nil
	}

	outputDir, err := flags.resolveOutputDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}
	w, err := report.Open(outputDir, textutil.StemToken(hypPath), summary.RunID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = w.Close() }()
	out.runDir = w.Dir()
	if out.files, err = w.WriteEvaluation(summary); err != nil {
		return nil, err
	}
	logger.Info("reports written",
		logging.String(logging.FieldRunID, summary.RunID),
		logging.String("dir", out.runDir),
		logging.Any("files", out.files),
	)
	return out, nil
}

func loadInput(cfg *config.Config, logger *slog.Logger, refPath, hypPath, uemPath string) (evaluate.Input, error) {
	opts := rttm.Options{AllowZeroDuration: cfg.Evaluation.AllowZeroDuration}
	ref, err := readAnnotation(logger, refPath, "reference", opts)
	if err != nil {
		return evaluate.Input{}, err
	}
	hyp, err := readAnnotation(logger, hypPath, "hypothesis", opts)
	if err != nil {
		return evaluate.Input{}, err
	}
	bounds, err := readBounds(uemPath)
	if err != nil {
		return evaluate.Input{}, err
	}
	return evaluate.Input{Reference: ref, Hypothesis: hyp, Bounds: bounds}, nil
}

func readAnnotation(logger *slog.Logger, path, role string, opts rttm.Options) (interval.Annotation, error) {
	ann, stats, err := rttm.ReadFile(path, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("annotation loaded",
		logging.String("role", role),
		logging.String("path", path),
		logging.Int("recordings", len(ann)),
		logging.Int("segments", stats.Segments),
		logging.Int("zero_dropped", stats.ZeroDropped),
	)
	if stats.ZeroDropped > 0 {
		logging.WarnWithContext(logger, "zero-duration segments dropped", "zero_duration_dropped",
			logging.String("path", path),
			logging.Int("count", stats.ZeroDropped),
			logging.String(logging.FieldImpact, "segments ignored"),
		)
	}
	return ann, nil
}

func readBounds(uemPath string) (map[string]interval.Bound, error) {
	if strings.TrimSpace(uemPath) == "" {
		return nil, nil
	}
	return rttm.ReadUEMFile(uemPath)
}

// printOutcome writes the status lines that follow a table.
func printOutcome(cmd *cobra.Command, res *evaluation) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	s := res.summary
	scored := len(s.Results) - s.Failed
	fmt.Fprintln(out, renderStatusLine("Scored", statusOK, plural(scored, "recording"), colorize))
	fmt.Fprintln(out, renderStatusLine("Skipped", countKind(len(s.Skipped), statusWarn), plural(len(s.Skipped), "recording"), colorize))
	if s.Degenerate > 0 {
		fmt.Fprintln(out, renderStatusLine("Degenerate", statusWarn, plural(s.Degenerate, "recording")+" without reference speech", colorize))
	}
	for _, r := range s.Results {
		if !r.Scored() {
			fmt.Fprintln(out, renderStatusLine("Failed", statusError, fmt.Sprintf("%s: %v", r.Recording, r.Err), colorize))
		}
	}
	if res.runDir != "" {
		fmt.Fprintln(out, renderStatusLine("Reports", statusInfo, res.runDir, colorize))
	}
}

func failedError(s *evaluate.Summary) error {
	if s.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%s could not be scored", plural(s.Failed, "recording"))
}
