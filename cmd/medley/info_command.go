package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"medley/internal/classify"
	"medley/internal/config"
	"medley/internal/library"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <album-id>",
		Short: "Show an album's stored classification and a fresh detection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			albumID, err := parseAlbumID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *library.Store, logger *slog.Logger) error {
				runCtx, cancel := signalContext()
				defer cancel()

				analyzer := classify.NewAnalyzer(cfg, store, logger)
				info, err := analyzer.DetectionInfo(runCtx, albumID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := colorizeOutput(out)
				album := info.Album
				fmt.Fprintf(out, "%s\n", album.Title)
				printField(out, "Album artist", orDash(album.AlbumArtist))
				printField(out, "Tracks", fmt.Sprintf("%d", album.TrackCount))
				printField(out, "Compilation flag", yesNo(album.CompilationFlag))
				printField(out, "State", stateLabel(album.State, colorize))
				printField(out, "Primary type", orDash(string(album.PrimaryType)))
				printField(out, "Secondary types", formatSecondary(album.SecondaryTypes))
				printField(out, "Detection reason", orDash(album.DetectionReason))
				printField(out, "Confidence", fmt.Sprintf("%.2f", album.Confidence))
				printField(out, "Diversity ratio", formatRatio(album.DiversityRatio))
				printField(out, "Unique artists", formatCount(album.UniqueArtists))
				printField(out, "Dominant share", formatRatio(album.DominantShare))
				printField(out, "Release group", orDash(album.ReleaseGroupID))
				if album.OverrideLocked {
					printField(out, "Override", fmt.Sprintf("locked (%s)", orDash(album.OverrideReason)))
				}

				detection := info.Detection
				fmt.Fprintln(out, "\nFresh detection (not persisted):")
				printField(out, "Compilation", yesNo(detection.IsCompilation))
				printField(out, "Reason", orDash(string(detection.Reason)))
				printField(out, "Confidence", fmt.Sprintf("%.2f", detection.Confidence))
				printField(out, "State", stateLabel(detection.State, colorize))
				if detection.Borderline {
					printField(out, "Borderline", "yes, pending verification")
				}
				return nil
			})
		},
	}
}

const infoLabelWidth = 18

func printField(out io.Writer, label, value string) {
	fmt.Fprintf(out, "  %-*s %s\n", infoLabelWidth, label+":", value)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
