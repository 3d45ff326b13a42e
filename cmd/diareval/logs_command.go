package main

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"diareval/internal/logging"
	"diareval/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var filter logs.Filter

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent log records, optionally for one run or recording",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Paths.LogDir == "" {
				return fmt.Errorf("paths.log_dir is empty; no log file is written")
			}
			entries, err := logs.Read(filepath.Join(cfg.Paths.LogDir, logging.LogFileName), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ctx.jsonOutput() {
				for _, e := range entries {
					fmt.Fprintln(out, e.Raw)
				}
				return nil
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No log records matched")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintln(out, formatLogEntry(e))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.RunID, "run", "", "Only records from this run id")
	cmd.Flags().StringVar(&filter.Recording, "recording", "", "Only records for this recording")
	cmd.Flags().StringVar(&filter.MinLevel, "level", "", "Minimum level: debug, info, warn, error")
	cmd.Flags().IntVarP(&filter.Limit, "lines", "n", 50, "Show at most this many records (0 for all)")
	return cmd
}

func formatLogEntry(e logs.Entry) string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s", strings.ToUpper(e.Level))
	if e.Component != "" {
		b.WriteString(" " + e.Component)
	}
	if e.Recording != "" {
		b.WriteString(" [" + e.Recording + "]")
	}
	b.WriteString(": " + e.Message)

	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}
