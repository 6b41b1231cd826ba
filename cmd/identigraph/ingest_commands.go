package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"identigraph/internal/config"
	"identigraph/internal/extract"
	"identigraph/internal/graph"
	"identigraph/internal/ingest"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load source files into the graph",
		Long: `Load source files into the graph. Each subcommand reads the files given as
arguments or, without arguments, every file matching the configured pattern.`,
	}

	ingestCmd.AddCommand(newIngestMARCCommand(ctx))
	ingestCmd.AddCommand(newIngestSourceCommand(ctx, "tsv", "Load publisher TSV exports", config.SourceTSV))
	ingestCmd.AddCommand(newIngestSourceCommand(ctx, "links", "Load VIAF cluster link tables", config.SourceVIAFLinks))
	ingestCmd.AddCommand(newIngestSourceCommand(ctx, "isbn", "Load ISBN equivalence lists", config.SourceISBN))

	return ingestCmd
}

func newIngestMARCCommand(ctx *commandContext) *cobra.Command {
	var profile string
	var keepIndexes bool

	cmd := &cobra.Command{
		Use:   "marc [files...]",
		Short: "Load binary authority or bibliographic records",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := extract.ParseProfile(profile)
			if err != nil {
				return err
			}
			return runIngest(ctx, cmd, ingest.Request{
				Kind:        ingest.ProfileKind(p),
				Files:       args,
				KeepIndexes: keepIndexes,
			})
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", string(extract.BNB), "Extraction profile: bnb, naco or viaf")
	cmd.Flags().BoolVar(&keepIndexes, "keep-indexes", false, "Leave relation indexes in place during the load")
	return cmd
}

func newIngestSourceCommand(ctx *commandContext, use, short string, kind config.SourceKind) *cobra.Command {
	var keepIndexes bool
	cmd := &cobra.Command{
		Use:   use + " [files...]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(ctx, cmd, ingest.Request{Kind: kind, Files: args, KeepIndexes: keepIndexes})
		},
	}
	cmd.Flags().BoolVar(&keepIndexes, "keep-indexes", false, "Leave relation indexes in place during the load")
	return cmd
}

func runIngest(ctx *commandContext, cmd *cobra.Command, req ingest.Request) error {
	return ctx.withStore(cmd, func(cfg *config.Config, store *graph.Store, logger *slog.Logger) error {
		summary, err := ingest.NewRunner(cfg, store, logger).Run(cmd.Context(), req)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(summary.PerFile))
		for _, f := range summary.PerFile {
			rows = append(rows, []string{f.Path, itoa(f.Records), itoa(f.Skipped), itoa(f.Edges)})
		}
		printTable(cmd, []string{"File", "Records", "Skipped", "Edges"}, rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight})
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d files (%d failed), %d new rows in %d flushes, %s\n",
			summary.Driver, summary.Files, summary.Failed, summary.Inserted, summary.Flushes, summary.Elapsed.Round(time.Millisecond))
		printClean(cmd, summary.Clean)
		return nil
	})
}
