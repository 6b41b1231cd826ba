package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"identigraph/internal/logging"
	"identigraph/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		filter logs.Filter
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent records from the log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			out := cmd.OutOrStdout()

			result, err := logs.Tail(cmd.Context(), path, logs.TailOptions{Offset: -1, Limit: lines, Filter: filter})
			if err != nil {
				return err
			}
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			for follow {
				result, err = logs.Tail(cmd.Context(), path, logs.TailOptions{
					Offset: result.Offset,
					Follow: true,
					Wait:   time.Second,
					Filter: filter,
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				if err != nil {
					return err
				}
				for _, line := range result.Lines {
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of records to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new records until interrupted")
	cmd.Flags().StringVar(&filter.SessionID, "session", "", "Only show records from this session")
	cmd.Flags().StringVar(&filter.Component, "component", "", "Only show records from this component (ingest, export, match)")
	cmd.Flags().StringVar(&filter.MinLevel, "level", "", "Only show records at or above this level")
	return cmd
}
