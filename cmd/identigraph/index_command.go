package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"identigraph/internal/config"
	"identigraph/internal/graph"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var drop bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build (or drop) the relation indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(_ *config.Config, store *graph.Store, logger *slog.Logger) error {
				if drop {
					if err := store.DropIndexes(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Indexes dropped")
					return nil
				}
				if err := store.BuildIndexes(cmd.Context()); err != nil {
					return err
				}
				indexes, err := store.Indexes(cmd.Context())
				if err != nil {
					return err
				}
				logger.Info("indexes built", "count", len(indexes))
				fmt.Fprintf(cmd.OutOrStdout(), "%d indexes built\n", len(indexes))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "Drop the indexes instead of building them")
	return cmd
}
