package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"medley/internal/config"
	"medley/internal/library"
	"medley/internal/services/musicbrainz"
	"medley/internal/verify"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var minRatio float64
	var maxRatio float64
	var limit int

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Resolve borderline albums against MusicBrainz",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedStore(func(cfg *config.Config, store *library.Store, logger *slog.Logger) error {
				runCtx, cancel := signalContext()
				defer cancel()

				authority, err := musicbrainz.New(
					cfg.MusicBrainz.BaseURL,
					cfg.MusicBrainz.UserAgent,
					time.Duration(cfg.MusicBrainz.RequestTimeout)*time.Second,
					musicbrainz.WithRateInterval(time.Duration(cfg.MusicBrainz.RateInterval)*time.Millisecond),
					musicbrainz.WithRetryAttempts(cfg.MusicBrainz.RetryAttempts),
				)
				if err != nil {
					return fmt.Errorf("build musicbrainz client: %w", err)
				}

				verifier := verify.New(cfg, store, authority, logger)
				report, runErr := verifier.VerifyBorderline(runCtx, verify.Options{
					MinRatio: minRatio,
					MaxRatio: maxRatio,
					Limit:    limit,
				})
				if report == nil {
					return runErr
				}

				out := cmd.OutOrStdout()
				if report.Total() == 0 {
					fmt.Fprintln(out, "No borderline albums pending verification")
					return runErr
				}

				rows := make([][]string, 0, len(report.Outcomes))
				for _, outcome := range report.Outcomes {
					rows = append(rows, []string{
						fmt.Sprintf("%d", outcome.AlbumID),
						outcome.Title,
						string(outcome.Status),
						yesNo(outcome.IsCompilation),
						outcome.ReleaseGroupID,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Status", "Compilation", "Release Group"},
					rows, 0,
				))
				fmt.Fprintf(out, "Resolved %d albums, %d failed (run %s)\n",
					len(report.Outcomes), len(report.Failures), report.RequestID)
				for _, failure := range report.Failures {
					fmt.Fprintf(out, "  album %d %q: %v\n", failure.AlbumID, failure.Title, failure.Err)
				}
				return runErr
			})
		},
	}

	cmd.Flags().Float64Var(&minRatio, "min", 0, "Lower diversity ratio bound (defaults to the borderline threshold)")
	cmd.Flags().Float64Var(&maxRatio, "max", 0, "Upper diversity ratio bound (defaults to the high-diversity threshold)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum albums to verify in one run")
	return cmd
}
