package classify

import (
	"medley/internal/config"
	"medley/internal/textutil"
)

// Diversity never claims full certainty without flag or pattern support.
const maxDiversityConfidence = 0.95

const (
	lowDominantShareConfidence = 0.8
	borderlineConfidence       = 0.5
)

// DiversityDetector classifies by the statistical spread of per-track artist
// credits. All cutoffs come from configuration.
type DiversityDetector struct {
	HighDiversityRatio  float64
	BorderlineRatio     float64
	DominantShareCutoff float64
	MinTracks           int
}

// NewDiversityDetector builds a detector from the classifier config section.
func NewDiversityDetector(cfg config.Classifier) DiversityDetector {
	return DiversityDetector{
		HighDiversityRatio:  cfg.HighDiversityRatio,
		BorderlineRatio:     cfg.BorderlineRatio,
		DominantShareCutoff: cfg.DominantShareCutoff,
		MinTracks:           cfg.MinTracks,
	}
}

func (DiversityDetector) Name() string { return "artist_diversity" }

func (d DiversityDetector) Detect(input Input) *Result {
	// Tiny albums have no statistical signal; abstain below the floor.
	if input.TrackCount < d.MinTracks || input.TrackCount == 0 {
		return nil
	}

	counts := make(map[string]int, len(input.TrackArtists))
	for _, artist := range input.TrackArtists {
		normalized := textutil.StripFeaturing(textutil.NormalizeName(artist))
		if normalized == "" {
			continue
		}
		counts[normalized]++
	}
	if len(counts) == 0 {
		return nil
	}

	unique := len(counts)
	dominant := 0
	for _, count := range counts {
		if count > dominant {
			dominant = count
		}
	}
	ratio := float64(unique) / float64(input.TrackCount)
	share := float64(dominant) / float64(input.TrackCount)

	result := &Result{
		DiversityRatio: &ratio,
		UniqueArtists:  &unique,
		DominantShare:  &share,
	}

	switch {
	case ratio >= d.HighDiversityRatio:
		result.IsCompilation = true
		result.Reason = ReasonHighDiversity
		result.Confidence = min(ratio, maxDiversityConfidence)
	case share < d.DominantShareCutoff:
		result.IsCompilation = true
		result.Reason = ReasonLowDominantShare
		result.Confidence = lowDominantShareConfidence
	case ratio >= d.BorderlineRatio:
		// Too mixed to call either way; escalate to the external authority.
		result.IsCompilation = true
		result.Reason = ReasonHighDiversity
		result.Confidence = borderlineConfidence
		result.Borderline = true
	default:
		result.IsCompilation = false
		result.Confidence = 1 - ratio
	}
	return result
}
