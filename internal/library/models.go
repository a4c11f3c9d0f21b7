package library

import (
	"strings"
	"time"
)

// PrimaryType is the exclusive release type of an album. Exactly one value
// is set once an album has been classified.
type PrimaryType string

const (
	PrimaryAlbum     PrimaryType = "album"
	PrimaryEP        PrimaryType = "ep"
	PrimarySingle    PrimaryType = "single"
	PrimaryBroadcast PrimaryType = "broadcast"
	PrimaryOther     PrimaryType = "other"
)

// SecondaryType tags an independent release attribute. Zero or more may be
// set and they combine freely with the primary type.
type SecondaryType string

const (
	SecondaryCompilation SecondaryType = "compilation"
	SecondarySoundtrack  SecondaryType = "soundtrack"
	SecondaryLive        SecondaryType = "live"
	SecondaryRemix       SecondaryType = "remix"
	SecondaryDJMix       SecondaryType = "dj_mix"
	SecondaryMixtape     SecondaryType = "mixtape"
	SecondaryDemo        SecondaryType = "demo"
	SecondarySpokenword  SecondaryType = "spokenword"
)

// State tracks where an album sits in the classification lifecycle.
type State string

const (
	StateUnclassified        State = "unclassified"
	StateExplicitMatched     State = "explicit_matched"
	StatePatternMatched      State = "pattern_matched"
	StateDiversityClassified State = "diversity_classified"
	StateBorderlinePending   State = "borderline_pending_verification"
	StateVerified            State = "verified"
	StateManualOverride      State = "manual_override"
)

var allStates = []State{
	StateUnclassified,
	StateExplicitMatched,
	StatePatternMatched,
	StateDiversityClassified,
	StateBorderlinePending,
	StateVerified,
	StateManualOverride,
}

var stateSet = func() map[State]struct{} {
	set := make(map[State]struct{}, len(allStates))
	for _, state := range allStates {
		set[state] = struct{}{}
	}
	return set
}()

// ValidState reports whether value names a known classification state.
func ValidState(value State) bool {
	_, ok := stateSet[value]
	return ok
}

// Album is the persisted entity this pipeline classifies. The store owns the
// descriptive fields; the classifier only mutates the classification block.
type Album struct {
	ID          int64
	Title       string
	AlbumArtist string
	TrackCount  int
	// CompilationFlag mirrors the embedded iTunes/ID3 compilation frame
	// captured at import time.
	CompilationFlag bool

	PrimaryType    PrimaryType
	SecondaryTypes []SecondaryType
	State          State
	OverrideLocked bool
	OverrideReason string

	// Detection detail kept for diagnostics.
	DetectionReason string
	Confidence      float64
	DiversityRatio  *float64
	UniqueArtists   *int
	DominantShare   *float64
	// ReleaseGroupID is the MusicBrainz reference recorded on verification.
	ReleaseGroupID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCompilation reports whether the album carries the compilation tag.
func (a *Album) IsCompilation() bool {
	for _, secondary := range a.SecondaryTypes {
		if secondary == SecondaryCompilation {
			return true
		}
	}
	return false
}

// HasSecondary reports whether the album carries the given tag.
func (a *Album) HasSecondary(tag SecondaryType) bool {
	for _, secondary := range a.SecondaryTypes {
		if secondary == tag {
			return true
		}
	}
	return false
}

// Classification is the block of fields a classification run writes back.
type Classification struct {
	PrimaryType     PrimaryType
	SecondaryTypes  []SecondaryType
	State           State
	DetectionReason string
	Confidence      float64
	DiversityRatio  *float64
	UniqueArtists   *int
	DominantShare   *float64
	ReleaseGroupID  string
}

// Stats summarizes the classified corpus.
type Stats struct {
	TotalAlbums          int
	CompilationAlbums    int
	VariousArtistsAlbums int
	CompilationPercent   float64
}

func encodeSecondaryTypes(types []SecondaryType) string {
	if len(types) == 0 {
		return ""
	}
	parts := make([]string, 0, len(types))
	seen := make(map[SecondaryType]struct{}, len(types))
	for _, t := range types {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ",")
}

func decodeSecondaryTypes(value string) []SecondaryType {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	types := make([]SecondaryType, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		types = append(types, SecondaryType(part))
	}
	return types
}
