package classify

import "medley/internal/library"

// Reason identifies which signal produced a classification.
type Reason string

const (
	ReasonExplicitFlag     Reason = "explicit_flag"
	ReasonPatternMatch     Reason = "pattern_match"
	ReasonHighDiversity    Reason = "high_diversity"
	ReasonLowDominantShare Reason = "low_dominant_share"
	ReasonExternalVerified Reason = "external_verified"
	ReasonManualOverride   Reason = "manual_override"
)

// Input carries the album attributes the detectors inspect. TrackArtists is
// the credited performer per track, in track order; it is sampled per call
// and never persisted by the detectors.
type Input struct {
	Title           string
	AlbumArtist     string
	TrackCount      int
	CompilationFlag bool
	TrackArtists    []string
}

// Result is one detector's verdict. Detectors abstain by returning nil
// instead of a Result, so an abstaining detector never contributes a
// confidence value.
type Result struct {
	IsCompilation bool
	Reason        Reason
	// Confidence is in [0,1].
	Confidence float64
	// Borderline routes the album to external verification instead of
	// accepting the verdict outright.
	Borderline bool

	DiversityRatio *float64
	UniqueArtists  *int
	DominantShare  *float64

	// SecondaryHints are extra release tags implied by the signal, such as
	// the soundtrack tag from a "Soundtrack" album artist.
	SecondaryHints []library.SecondaryType
}

// Detector is one interchangeable classification strategy. The orchestrator
// runs detectors in priority order and short-circuits on the first result it
// can accept.
type Detector interface {
	Name() string
	Detect(input Input) *Result
}
