package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"medley/internal/config"
	"medley/internal/ingest"
	"medley/internal/library"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import [directory]",
		Short: "Scan a music directory into the library",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var root string
			if len(args) == 1 {
				root = args[0]
			}
			return ctx.withLockedStore(func(cfg *config.Config, store *library.Store, logger *slog.Logger) error {
				runCtx, cancel := signalContext()
				defer cancel()

				scanner := ingest.New(cfg, store, logger)
				report, err := scanner.Scan(runCtx, root)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d albums (%d tracks), skipped %d unreadable files\n",
					report.AlbumsImported, report.TracksImported, report.FilesSkipped)
				return nil
			})
		},
	}
}
