package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"medley/internal/config"
	"medley/internal/library"
)

func newOverrideCommand(ctx *commandContext) *cobra.Command {
	var compilation bool
	var reason string

	cmd := &cobra.Command{
		Use:   "override <album-id>",
		Short: "Pin an album's classification and lock out automated changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			albumID, err := parseAlbumID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *library.Store, logger *slog.Logger) error {
				runCtx, cancel := signalContext()
				defer cancel()

				if err := store.SetOverride(runCtx, albumID, compilation, strings.TrimSpace(reason)); err != nil {
					return fmt.Errorf("set override: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Album %d pinned as compilation=%s\n", albumID, yesNo(compilation))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&compilation, "compilation", false, "Pin the album as a compilation")
	cmd.Flags().StringVar(&reason, "reason", "", "Free-form note explaining the override")
	return cmd
}

func newClearOverrideCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-override <album-id>",
		Short: "Unlock an album so automated classification applies again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			albumID, err := parseAlbumID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *library.Store, logger *slog.Logger) error {
				runCtx, cancel := signalContext()
				defer cancel()

				if err := store.ClearOverride(runCtx, albumID); err != nil {
					return fmt.Errorf("clear override: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Album %d unlocked; run analyze to reclassify\n", albumID)
				return nil
			})
		},
	}
}
