package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"medley/internal/classify"
	"medley/internal/config"
	"medley/internal/library"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <album-id>",
		Short: "Classify a single album",
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
				detection, err := analyzer.AnalyzeAlbum(runCtx, albumID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Album %d: compilation=%s reason=%s confidence=%.2f state=%s\n",
					detection.AlbumID,
					yesNo(detection.IsCompilation),
					detection.Reason,
					detection.Confidence,
					stateLabel(detection.State, colorizeOutput(cmd.OutOrStdout())))
				if !detection.Applied {
					fmt.Fprintln(out, "Result not applied: a manual override is in place")
				}
				return nil
			})
		},
	}
}

func newAnalyzeAllCommand(ctx *commandContext) *cobra.Command {
	var onlyUndetected bool
	var minTracks int

	cmd := &cobra.Command{
		Use:   "analyze-all",
		Short: "Classify the whole library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedStore(func(cfg *config.Config, store *library.Store, logger *slog.Logger) error {
				runCtx, cancel := signalContext()
				defer cancel()

				analyzer := classify.NewAnalyzer(cfg, store, logger)
				report, runErr := analyzer.AnalyzeAll(runCtx, classify.AnalyzeAllOptions{
					OnlyUndetected: onlyUndetected,
					MinTracks:      minTracks,
				})
				if report == nil {
					return runErr
				}

				out := cmd.OutOrStdout()
				fmt.Fprint(out, renderRunReport(report))
				fmt.Fprintf(out, "\nClassified %d albums, %d failed (run %s)\n",
					len(report.Outcomes), len(report.Failures), report.RequestID)
				for _, failure := range report.Failures {
					fmt.Fprintf(out, "  album %d %q: %v\n", failure.AlbumID, failure.Title, failure.Err)
				}
				return runErr
			})
		},
	}

	cmd.Flags().BoolVar(&onlyUndetected, "only-undetected", false, "Only classify albums never classified before")
	cmd.Flags().IntVar(&minTracks, "min-tracks", 0, "Skip albums with fewer tracks")
	return cmd
}

func renderRunReport(report *classify.RunReport) string {
	outcomes := make([]classify.Outcome, len(report.Outcomes))
	copy(outcomes, report.Outcomes)
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].AlbumID < outcomes[j].AlbumID })

	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		rows = append(rows, []string{
			fmt.Sprintf("%d", outcome.AlbumID),
			outcome.Title,
			yesNo(outcome.Detection.IsCompilation),
			string(outcome.Detection.Reason),
			fmt.Sprintf("%.2f", outcome.Detection.Confidence),
			string(outcome.Detection.State),
		})
	}
	return renderTable(
		[]string{"ID", "Title", "Compilation", "Reason", "Confidence", "State"},
		rows, 0, 4,
	) + "\n"
}
