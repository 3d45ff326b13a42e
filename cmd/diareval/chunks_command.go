package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"diareval/internal/chunk"
	"diareval/internal/report"
)

type chunkOutput struct {
	Recording string         `json:"recording"`
	Chunks    []chunk.Result `json:"chunks"`
	Totals    chunk.Result   `json:"totals"`
}

func newChunksCommand(ctx *commandContext) *cobra.Command {
	var flags evalFlags
	var size float64

	cmd := &cobra.Command{
		Use:   "chunks <reference.rttm> <hypothesis.rttm>",
		Short: "Evaluate speech detection in fixed-length windows",
		Long: `Split each recording into windows of --size seconds and report, per
window, the true, false, and missed speech durations along with the reference
speech and the reference labels heard in the window.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			opts.ChunkSeconds = cfg.Evaluation.ChunkSeconds
			if cmd.Flags().Changed("size") {
				opts.ChunkSeconds = size
			}
			if err := chunk.ValidateSize(opts.ChunkSeconds); err != nil {
				return fmt.Errorf("--size: %w", err)
			}

			res, err := runEvaluation(cmd, ctx, &flags, opts, args[0], args[1])
			if err != nil {
				return err
			}

			scored := res.summary.Scored()
			if ctx.jsonOutput() {
				payload := make([]chunkOutput, 0, len(scored))
				for _, r := range scored {
					payload = append(payload, chunkOutput{Recording: r.Recording, Chunks: r.Chunks, Totals: r.ChunkTotals})
				}
				if err := writeJSON(cmd, payload); err != nil {
					return err
				}
				return failedError(res.summary)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, r := range scored {
				for _, line := range renderSectionHeader(r.Recording, colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, report.ChunksTable(r.Chunks))
				t := r.ChunkTotals
				fmt.Fprintf(out, "total: true %.3f  false %.3f  miss %.3f  speech %.3f\n\n", t.True, t.False, t.Miss, t.Speech)
			}
			printOutcome(cmd, res)
			return failedError(res.summary)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&size, "size", 0, "Window length in seconds (defaults to evaluation.chunk_seconds)")
	return cmd
}
