package classify

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"medley/internal/config"
	"medley/internal/library"
	"medley/internal/logging"
	"medley/internal/services"
)

// Detection is the outcome of classifying one album.
type Detection struct {
	AlbumID int64
	Result
	State library.State
	// Applied reports whether the result was persisted. A manual override
	// that appears while classification is in flight wins, in which case
	// the automated result is discarded and Applied is false.
	Applied bool
}

// Analyzer runs the detector cascade and persists accepted results.
type Analyzer struct {
	cfg       *config.Config
	store     *library.Store
	logger    *slog.Logger
	detectors []Detector
}

// NewAnalyzer constructs the orchestrator with the standard cascade:
// explicit flag, then name pattern, then artist diversity.
func NewAnalyzer(cfg *config.Config, store *library.Store, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Analyzer{
		cfg:    cfg,
		store:  store,
		logger: logger,
		detectors: []Detector{
			ExplicitFlagDetector{},
			PatternDetector{},
			NewDiversityDetector(cfg.Classifier),
		},
	}
}

// AnalyzeAlbum classifies a single album and writes the result back.
func (a *Analyzer) AnalyzeAlbum(ctx context.Context, albumID int64) (*Detection, error) {
	album, err := a.store.GetByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, library.ErrAlbumNotFound) {
			return nil, services.Wrap(services.ErrNotFound, "classify", "analyze", "album missing", err)
		}
		return nil, services.Wrap(services.ErrPersistence, "classify", "analyze", "load album", err)
	}
	return a.analyzeLoaded(ctx, album)
}

func (a *Analyzer) analyzeLoaded(ctx context.Context, album *library.Album) (*Detection, error) {
	if album.OverrideLocked {
		return &Detection{
			AlbumID: album.ID,
			Result: Result{
				IsCompilation: album.IsCompilation(),
				Reason:        ReasonManualOverride,
				Confidence:    1.0,
			},
			State:   library.StateManualOverride,
			Applied: false,
		}, nil
	}
	if album.TrackCount < 0 {
		return nil, services.Wrap(services.ErrValidation, "classify", "analyze", "negative track count", nil)
	}

	input, err := a.loadInput(ctx, album)
	if err != nil {
		return nil, err
	}

	result, state := a.cascade(input)
	detection := &Detection{AlbumID: album.ID, Result: result, State: state}

	classification := library.Classification{
		PrimaryType:     primaryFor(album),
		SecondaryTypes:  mergeSecondary(album.SecondaryTypes, result.IsCompilation, result.SecondaryHints, TitleTags(album.Title)),
		State:           state,
		DetectionReason: string(result.Reason),
		Confidence:      result.Confidence,
		DiversityRatio:  result.DiversityRatio,
		UniqueArtists:   result.UniqueArtists,
		DominantShare:   result.DominantShare,
		ReleaseGroupID:  album.ReleaseGroupID,
	}

	switch err := a.store.ApplyClassification(ctx, album.ID, classification); {
	case errors.Is(err, library.ErrOverrideLocked):
		// An override landed while this classification was in flight. The
		// manual decision wins; drop the automated result.
		a.logger.Info("classification discarded for manual override",
			logging.Int64("album_id", album.ID),
			logging.String("title", album.Title))
		detection.State = library.StateManualOverride
		return detection, nil
	case err != nil:
		return nil, services.Wrap(services.ErrPersistence, "classify", "analyze", "write classification", err)
	}

	detection.Applied = true
	a.logger.Debug("album classified",
		logging.Int64("album_id", album.ID),
		logging.String("title", album.Title),
		logging.Bool("compilation", result.IsCompilation),
		logging.String("reason", string(result.Reason)),
		logging.Float64("confidence", result.Confidence),
		logging.String("state", string(state)))
	return detection, nil
}

func (a *Analyzer) loadInput(ctx context.Context, album *library.Album) (Input, error) {
	artists, err := a.store.TrackArtists(ctx, album.ID)
	if err != nil {
		return Input{}, services.Wrap(services.ErrPersistence, "classify", "analyze", "load track artists", err)
	}
	return Input{
		Title:           album.Title,
		AlbumArtist:     album.AlbumArtist,
		TrackCount:      album.TrackCount,
		CompilationFlag: album.CompilationFlag,
		TrackArtists:    artists,
	}, nil
}

// cascade runs the detectors in priority order and returns the accepted
// result together with the lifecycle state it implies.
func (a *Analyzer) cascade(input Input) (Result, library.State) {
	threshold := a.cfg.Classifier.AutoApplyThreshold
	for _, detector := range a.detectors {
		result := detector.Detect(input)
		if result == nil {
			continue
		}
		switch result.Reason {
		case ReasonExplicitFlag:
			return *result, library.StateExplicitMatched
		case ReasonPatternMatch:
			if result.Confidence >= threshold {
				return *result, library.StatePatternMatched
			}
			// Below the auto-apply bar: fall through to the next signal.
			continue
		default:
			if result.Borderline {
				return *result, library.StateBorderlinePending
			}
			return *result, library.StateDiversityClassified
		}
	}
	// Nothing fired: regular album, unverified, low confidence.
	return Result{IsCompilation: false, Confidence: 0.5}, library.StateDiversityClassified
}

// Info pairs the stored album with a freshly computed detection for
// diagnostic display. The computed detection is not persisted.
type Info struct {
	Album     *library.Album
	Detection Detection
}

// DetectionInfo re-runs the cascade without writing anything back.
func (a *Analyzer) DetectionInfo(ctx context.Context, albumID int64) (*Info, error) {
	album, err := a.store.GetByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, library.ErrAlbumNotFound) {
			return nil, services.Wrap(services.ErrNotFound, "classify", "info", "album missing", err)
		}
		return nil, services.Wrap(services.ErrPersistence, "classify", "info", "load album", err)
	}

	if album.OverrideLocked {
		return &Info{
			Album: album,
			Detection: Detection{
				AlbumID: album.ID,
				Result: Result{
					IsCompilation: album.IsCompilation(),
					Reason:        ReasonManualOverride,
					Confidence:    1.0,
				},
				State: library.StateManualOverride,
			},
		}, nil
	}

	input, err := a.loadInput(ctx, album)
	if err != nil {
		return nil, err
	}
	result, state := a.cascade(input)
	return &Info{
		Album:     album,
		Detection: Detection{AlbumID: album.ID, Result: result, State: state},
	}, nil
}

// AnalyzeAllOptions controls a bulk classification run.
type AnalyzeAllOptions struct {
	OnlyUndetected bool
	// MinTracks filters the corpus; albums with fewer tracks are not
	// visited at all. Zero means no floor.
	MinTracks int
}

// Outcome records one album's result within a bulk run.
type Outcome struct {
	AlbumID   int64
	Title     string
	Detection Detection
}

// Failure records one album's error within a bulk run.
type Failure struct {
	AlbumID int64
	Title   string
	Err     error
}

// RunReport partitions a bulk run into successes and failures.
type RunReport struct {
	RequestID string
	Outcomes  []Outcome
	Failures  []Failure
}

// AnalyzeAll classifies the corpus with a bounded worker pool. Per-album
// failures are isolated: one album's error never aborts the rest. The run
// stops scheduling new albums once ctx is canceled; albums already being
// classified finish.
func (a *Analyzer) AnalyzeAll(ctx context.Context, opts AnalyzeAllOptions) (*RunReport, error) {
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)

	albums, err := a.store.ListForAnalysis(ctx, opts.OnlyUndetected, opts.MinTracks)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "classify", "analyze_all", "list albums", err)
	}

	report := &RunReport{RequestID: requestID}
	a.logger.Info("bulk classification started",
		logging.String("request_id", requestID),
		logging.Int("albums", len(albums)),
		logging.Bool("only_undetected", opts.OnlyUndetected),
		logging.Int("workers", a.cfg.Classifier.Workers))

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.cfg.Classifier.Workers)

	for _, album := range albums {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			detection, err := a.analyzeLoaded(groupCtx, album)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, Failure{AlbumID: album.ID, Title: album.Title, Err: err})
				return nil
			}
			report.Outcomes = append(report.Outcomes, Outcome{AlbumID: album.ID, Title: album.Title, Detection: *detection})
			return nil
		})
	}
	_ = group.Wait()

	a.logger.Info("bulk classification finished",
		logging.String("request_id", requestID),
		logging.Int("succeeded", len(report.Outcomes)),
		logging.Int("failed", len(report.Failures)))
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func primaryFor(album *library.Album) library.PrimaryType {
	if album.PrimaryType == "" {
		return library.PrimaryAlbum
	}
	return album.PrimaryType
}
