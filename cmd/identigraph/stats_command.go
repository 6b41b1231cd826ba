package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"identigraph/internal/config"
	"identigraph/internal/graph"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut, yamlOut bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show row counts per relation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut && yamlOut {
				return errors.New("--json and --yaml are mutually exclusive")
			}
			return ctx.withStore(cmd, func(_ *config.Config, store *graph.Store, _ *slog.Logger) error {
				counts, err := store.Counts(cmd.Context())
				if err != nil {
					return err
				}
				switch {
				case jsonOut:
					return writeJSON(cmd, counts)
				case yamlOut:
					return writeYAML(cmd, counts)
				}
				rows := make([][]string, 0, len(counts)+1)
				var total int64
				for _, c := range counts {
					total += c.Rows
					rows = append(rows, []string{c.Relation, itoa(c.Rows)})
				}
				rows = append(rows, []string{"total", itoa(total)})
				printTable(cmd, []string{"Relation", "Rows"}, rows, []columnAlignment{alignLeft, alignRight})
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print counts as JSON")
	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "Print counts as YAML")
	return cmd
}
