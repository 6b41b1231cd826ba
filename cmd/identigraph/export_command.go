package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"identigraph/internal/config"
	"identigraph/internal/graph"
	"identigraph/internal/report"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var parquetFlag, noSummary bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Clean the graph and write dumps and reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(cfg *config.Config, store *graph.Store, logger *slog.Logger) error {
				summary, err := report.NewExporter(cfg, store, logger).Run(cmd.Context(), report.Options{
					Parquet:   parquetFlag || cfg.Export.Parquet,
					Summary:   cfg.Export.Summary && !noSummary,
					SessionID: ctx.sessionID,
				})
				if err != nil {
					return err
				}

				printClean(cmd, graph.CleanStats(summary.Clean))

				rows := make([][]string, 0, len(summary.Relations)+len(summary.Reports)+1)
				for _, c := range summary.Relations {
					rows = append(rows, []string{graph.DumpFileName(relationNamed(c.Relation)), itoa(c.Rows)})
				}
				for _, a := range summary.Reports {
					rows = append(rows, []string{a.Name, itoa(a.Rows)})
				}
				if summary.Parquet != nil {
					rows = append(rows, []string{summary.Parquet.Name, itoa(summary.Parquet.Rows)})
				}
				printTable(cmd, []string{"File", "Rows"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintf(cmd.OutOrStdout(), "Written to %s\n", summary.OutputDir)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&parquetFlag, "parquet", false, "Also write a Parquet copy of every relation")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "Skip export_summary.yaml")
	return cmd
}

func relationNamed(name string) graph.Relation {
	rel, ok := graph.RelationByName(name)
	if !ok {
		return graph.Relation{Name: name}
	}
	return rel
}
