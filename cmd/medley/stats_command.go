package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"medley/internal/config"
	"medley/internal/library"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize classification coverage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store, logger *slog.Logger) error {
				runCtx, cancel := signalContext()
				defer cancel()

				stats, err := store.Stats(runCtx)
				if err != nil {
					return fmt.Errorf("collect stats: %w", err)
				}

				rows := [][]string{
					{"Total albums", fmt.Sprintf("%d", stats.TotalAlbums)},
					{"Compilations", fmt.Sprintf("%d", stats.CompilationAlbums)},
					{"Various-artists albums", fmt.Sprintf("%d", stats.VariousArtistsAlbums)},
					{"Compilation share", fmt.Sprintf("%.1f%%", stats.CompilationPercent)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Metric", "Value"},
					rows, 1,
				))
				return nil
			})
		},
	}
}
