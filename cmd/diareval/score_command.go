package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"diareval/internal/report"
)

func newScoreCommand(ctx *commandContext) *cobra.Command {
	var flags evalFlags
	var chunkSize float64

	cmd := &cobra.Command{
		Use:   "score <reference.rttm> <hypothesis.rttm>",
		Short: "Break down diarization errors per reference speaker",
		Long: `Score a hypothesis RTTM against a reference RTTM.

Each reference speaker gets correct, false alarm (speaker and speech), and
miss (speaker and speech) durations after mapping hypothesis speakers to
reference speakers one to one. Values are fractions of total reference speech
unless --raw is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			if cmd.Flags().Changed("chunk-size") {
				opts.ChunkSeconds = chunkSize
			}

			res, err := runEvaluation(cmd, ctx, &flags, opts, args[0], args[1])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				if err := writeJSON(cmd, report.NewSummary(res.summary)); err != nil {
					return err
				}
				return failedError(res.summary)
			}

			out := cmd.OutOrStdout()
			if scored := res.summary.Scored(); len(scored) > 0 {
				fmt.Fprintln(out, report.ScoresTable(scored))
			}
			printOutcome(cmd, res)
			return failedError(res.summary)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&chunkSize, "chunk-size", 0, "Also evaluate fixed windows of this many seconds")
	return cmd
}
