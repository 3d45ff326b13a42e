package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"diareval/internal/config"
	"diareval/internal/corpusstats"
	"diareval/internal/evaluate"
	"diareval/internal/logging"
	"diareval/internal/preflight"
	"diareval/internal/report"
	"diareval/internal/rttm"
	"diareval/internal/textutil"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var uemPath string
	var outputDir string
	var noFiles bool

	cmd := &cobra.Command{
		Use:   "stats <reference.rttm>",
		Short: "Summarize speakers, roles, and overlap in an annotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			roleMap, err := ctx.roleMap()
			if err != nil {
				return err
			}

			if err := preflight.CheckInputs(args[0], uemPath); err != nil {
				return err
			}
			ref, err := readAnnotation(logger, args[0], "reference", rttm.Options{AllowZeroDuration: cfg.Evaluation.AllowZeroDuration})
			if err != nil {
				return err
			}
			bounds, err := readBounds(uemPath)
			if err != nil {
				return err
			}

			files := make([]corpusstats.File, 0, len(ref))
			for _, rec := range ref.Recordings() {
				bound, source, err := evaluate.ResolveBound(rec, ref[rec], nil, bounds, cfg.Paths.WavDir)
				if err != nil {
					return fmt.Errorf("%s: %w", rec, err)
				}
				recLogger := logging.WithContext(logging.WithRecording(cmd.Context(), rec), logger)
				recLogger.Debug("bound resolved",
					logging.String("bound_source", string(source)),
					logging.Float64("bound_end", bound.End),
				)
				files = append(files, corpusstats.Compute(rec, ref[rec], bound, roleMap))
			}

			var runDir string
			if !noFiles {
				dir := strings.TrimSpace(outputDir)
				if dir == "" {
					dir = cfg.Paths.OutputDir
				} else if dir, err = config.ExpandPath(dir); err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
				w, err := report.Open(dir, textutil.StemToken(args[0])+"-stats", uuid.NewString())
				if err != nil {
					return err
				}
				defer func() { _ = w.Close() }()
				if _, err := w.WriteStats(files); err != nil {
					return err
				}
				runDir = w.Dir()
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, report.NewFileStats(files))
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, report.StatsTable(files))
			fmt.Fprintln(out, renderStatusLine("Recordings", statusOK, fmt.Sprintf("%d", len(files)), colorize))
			if runDir != "" {
				fmt.Fprintln(out, renderStatusLine("Reports", statusInfo, runDir, colorize))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&uemPath, "uem", "", "UEM file with per-recording bounds")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for report files (defaults to paths.output_dir)")
	cmd.Flags().BoolVar(&noFiles, "no-files", false, "Print results without writing report files")
	return cmd
}
