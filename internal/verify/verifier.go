package verify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"medley/internal/batch"
	"medley/internal/classify"
	"medley/internal/config"
	"medley/internal/library"
	"medley/internal/logging"
	"medley/internal/services"
	"medley/internal/services/musicbrainz"
)

// Status describes how one borderline album came out of a verification run.
type Status string

const (
	// StatusVerifiedCompilation means the authority confirmed a compilation.
	StatusVerifiedCompilation Status = "verified_compilation"
	// StatusVerifiedRegular means the authority matched a non-compilation.
	StatusVerifiedRegular Status = "verified_regular"
	// StatusSettled means the authority had no match; the diversity guess
	// stands and the album will not be resubmitted.
	StatusSettled Status = "settled"
	// StatusOverridden means a manual override landed while verification was
	// in flight; the authority's answer was discarded.
	StatusOverridden Status = "overridden"
)

// Outcome records one album's verification result.
type Outcome struct {
	AlbumID        int64
	Title          string
	Status         Status
	IsCompilation  bool
	ReleaseGroupID string
}

// Failure records an album whose lookup failed. The album keeps its
// pending state and is picked up again by a later run.
type Failure struct {
	AlbumID int64
	Title   string
	Err     error
}

// Report summarizes a verification run.
type Report struct {
	RequestID string
	Outcomes  []Outcome
	Failures  []Failure
}

// Total returns the number of albums the run touched.
func (r *Report) Total() int {
	return len(r.Outcomes) + len(r.Failures)
}

// Options selects which borderline albums a run submits.
type Options struct {
	MinRatio float64
	MaxRatio float64
	// Limit caps how many albums are submitted; zero uses the configured
	// default.
	Limit int
}

// Verifier drains pending-verification albums through the batching gateway
// to the external authority and writes the answers back.
type Verifier struct {
	cfg       *config.Config
	store     *library.Store
	authority musicbrainz.Authority
	logger    *slog.Logger
}

// New constructs a verifier.
func New(cfg *config.Config, store *library.Store, authority musicbrainz.Authority, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Verifier{cfg: cfg, store: store, authority: authority, logger: logger}
}

// VerifyBorderline submits borderline albums to the authority in batches and
// applies the answers. Albums with no authority match settle on their
// diversity guess permanently; lookup failures leave the album pending so the
// next run retries it.
func (v *Verifier) VerifyBorderline(ctx context.Context, opts Options) (*Report, error) {
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)

	minRatio, maxRatio := opts.MinRatio, opts.MaxRatio
	if minRatio <= 0 {
		minRatio = v.cfg.Classifier.BorderlineRatio
	}
	if maxRatio <= 0 {
		maxRatio = v.cfg.Classifier.HighDiversityRatio
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = v.cfg.Verification.DefaultLimit
	}

	albums, err := v.store.ListBorderline(ctx, minRatio, maxRatio, limit)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "verify", "list", "list borderline albums", err)
	}

	report := &Report{RequestID: requestID}
	v.logger.Info("verification run started",
		logging.String("request_id", requestID),
		logging.Int("albums", len(albums)),
		logging.Int("batch_size", v.cfg.Verification.BatchSize))
	if len(albums) == 0 {
		return report, nil
	}

	maxWait := time.Duration(v.cfg.Verification.MaxWaitSeconds) * time.Second
	gateway, err := batch.New(v.cfg.Verification.BatchSize, maxWait,
		func(ctx context.Context, items []*library.Album) ([]error, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			itemErrs := make([]error, len(items))
			for i, album := range items {
				itemErrs[i] = v.verifyOne(ctx, album, report)
			}
			return itemErrs, nil
		})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "verify", "gateway", "build gateway", err)
	}

	// Every flush carries its own failure partition: the ones AddBatch
	// triggers at the size threshold and the final partial one from Close.
	results, err := gateway.AddBatch(ctx, albums)
	if err != nil {
		return report, err
	}
	results = append(results, gateway.Close(ctx))
	for _, result := range results {
		for _, failed := range result.Failed {
			report.Failures = append(report.Failures, Failure{
				AlbumID: failed.Item.ID,
				Title:   failed.Item.Title,
				Err:     failed.Err,
			})
		}
	}

	v.logger.Info("verification run finished",
		logging.String("request_id", requestID),
		logging.Int("resolved", len(report.Outcomes)),
		logging.Int("failed", len(report.Failures)))
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// verifyOne looks one album up and writes the answer back. A returned error
// marks the album failed for this run while leaving it pending in the store.
func (v *Verifier) verifyOne(ctx context.Context, album *library.Album, report *Report) error {
	answer, err := v.authority.Classify(ctx, musicbrainz.Lookup{
		Title:      album.Title,
		Artist:     lookupArtist(album),
		TrackCount: album.TrackCount,
	})
	if err != nil {
		v.logger.Warn("authority lookup failed",
			logging.Int64("album_id", album.ID),
			logging.String("title", album.Title),
			logging.Error(err))
		return err
	}

	classification, status := v.resolve(album, answer)
	switch err := v.store.ApplyClassification(ctx, album.ID, classification); {
	case errors.Is(err, library.ErrOverrideLocked):
		// Manual decision wins over the authority's answer.
		v.logger.Info("verification discarded for manual override",
			logging.Int64("album_id", album.ID),
			logging.String("title", album.Title))
		report.Outcomes = append(report.Outcomes, Outcome{
			AlbumID: album.ID,
			Title:   album.Title,
			Status:  StatusOverridden,
		})
		return nil
	case err != nil:
		return services.Wrap(services.ErrPersistence, "verify", "apply", "write verification", err)
	}

	report.Outcomes = append(report.Outcomes, Outcome{
		AlbumID:        album.ID,
		Title:          album.Title,
		Status:         status,
		IsCompilation:  hasCompilationTag(classification.SecondaryTypes),
		ReleaseGroupID: classification.ReleaseGroupID,
	})
	v.logger.Debug("borderline album resolved",
		logging.Int64("album_id", album.ID),
		logging.String("title", album.Title),
		logging.String("status", string(status)),
		logging.String("release_group_id", classification.ReleaseGroupID))
	return nil
}

// resolve maps an authority answer onto the classification to persist. The
// authority's answer overrides the borderline guess in either direction; a
// miss settles the guess as-is so the album is never resubmitted.
func (v *Verifier) resolve(album *library.Album, answer *musicbrainz.Classification) (library.Classification, Status) {
	base := library.Classification{
		PrimaryType:     album.PrimaryType,
		SecondaryTypes:  album.SecondaryTypes,
		DetectionReason: album.DetectionReason,
		Confidence:      album.Confidence,
		DiversityRatio:  album.DiversityRatio,
		UniqueArtists:   album.UniqueArtists,
		DominantShare:   album.DominantShare,
		ReleaseGroupID:  album.ReleaseGroupID,
	}
	if base.PrimaryType == "" {
		base.PrimaryType = library.PrimaryAlbum
	}

	if !answer.Found {
		base.State = library.StateDiversityClassified
		return base, StatusSettled
	}

	base.State = library.StateVerified
	base.DetectionReason = string(classify.ReasonExternalVerified)
	base.Confidence = 1.0
	base.ReleaseGroupID = answer.ReleaseGroupID
	if primary := primaryFromAuthority(answer.PrimaryType); primary != "" {
		base.PrimaryType = primary
	}
	base.SecondaryTypes = mergeAuthorityTags(album.SecondaryTypes, answer)

	if answer.IsCompilation {
		return base, StatusVerifiedCompilation
	}
	return base, StatusVerifiedRegular
}

// lookupArtist omits the credit for albums already guessed as compilations;
// a "Various Artists" credit only hurts the search.
func lookupArtist(album *library.Album) string {
	if album.IsCompilation() {
		return ""
	}
	return album.AlbumArtist
}

func hasCompilationTag(tags []library.SecondaryType) bool {
	for _, tag := range tags {
		if tag == library.SecondaryCompilation {
			return true
		}
	}
	return false
}

func primaryFromAuthority(value string) library.PrimaryType {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "album":
		return library.PrimaryAlbum
	case "ep":
		return library.PrimaryEP
	case "single":
		return library.PrimarySingle
	case "broadcast":
		return library.PrimaryBroadcast
	case "other":
		return library.PrimaryOther
	default:
		return ""
	}
}

func secondaryFromAuthority(value string) (library.SecondaryType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "compilation":
		return library.SecondaryCompilation, true
	case "soundtrack":
		return library.SecondarySoundtrack, true
	case "live":
		return library.SecondaryLive, true
	case "remix":
		return library.SecondaryRemix, true
	case "dj-mix":
		return library.SecondaryDJMix, true
	case "mixtape/street", "mixtape":
		return library.SecondaryMixtape, true
	case "demo":
		return library.SecondaryDemo, true
	case "spokenword":
		return library.SecondarySpokenword, true
	default:
		return "", false
	}
}

// mergeAuthorityTags reconciles the stored tags with the authority's answer.
// The compilation tag follows the authority exactly; other tags are additive.
func mergeAuthorityTags(existing []library.SecondaryType, answer *musicbrainz.Classification) []library.SecondaryType {
	merged := make([]library.SecondaryType, 0, len(existing)+len(answer.SecondaryTypes))
	seen := make(map[library.SecondaryType]struct{})
	add := func(tag library.SecondaryType) {
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}

	for _, tag := range existing {
		if tag == library.SecondaryCompilation && !answer.IsCompilation {
			continue
		}
		add(tag)
	}
	if answer.IsCompilation {
		add(library.SecondaryCompilation)
	}
	for _, raw := range answer.SecondaryTypes {
		if tag, ok := secondaryFromAuthority(raw); ok {
			add(tag)
		}
	}
	return merged
}
