package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"identigraph/internal/config"
	"identigraph/internal/graph"
	"identigraph/internal/match"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "match [files...]",
		Short: "Verify publisher name lists against the graph",
		Long: `Resolve every (name, ISBN) row of each name list to the VIAF clusters holding
that ISBN or an equivalent, and score the name against the cluster's names.
Rows scoring 80 or more are written to <list>_name_list_accepted.txt, the
rest to <list>_name_list_rejected.txt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(cfg *config.Config, store *graph.Store, logger *slog.Logger) error {
				results, err := match.NewReconciler(cfg, store, logger).Run(cmd.Context(), args)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, results)
				}
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					rows = append(rows, []string{r.Source, itoa(r.Rows), itoa(r.Candidates), itoa(r.Accepted), itoa(r.Rejected)})
				}
				printTable(cmd, []string{"List", "Rows", "Candidates", "Accepted", "Rejected"}, rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight})
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")
	return cmd
}
