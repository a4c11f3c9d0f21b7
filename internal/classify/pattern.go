package classify

import (
	"medley/internal/library"
	"medley/internal/textutil"
)

const patternConfidence = 0.9

// variousArtistsPhrases maps normalized album-artist phrases to detection.
// Entries cover the spellings and locales that show up in real libraries;
// keys must already be in textutil.NormalizeName form.
var variousArtistsPhrases = map[string][]library.SecondaryType{
	"various artists":            nil,
	"various":                    nil,
	"va":                         nil,
	"v/a":                        nil,
	"v.a.":                       nil,
	"v. a.":                      nil,
	"sampler":                    nil,
	"compilation":                nil,
	"unknown artist":             nil,
	"soundtrack":                 {library.SecondarySoundtrack},
	"original soundtrack":        {library.SecondarySoundtrack},
	"ost":                        {library.SecondarySoundtrack},
	"verschiedene interpreten":   nil, // German
	"varios artistas":            nil, // Spanish
	"vários artistas":            nil, // Portuguese
	"artisti vari":               nil, // Italian
	"artistes divers":            nil, // French
	"diverse artiesten":          nil, // Dutch
	"diverse artister":           nil, // Scandinavian
	"разные исполнители":         nil, // Russian
	"различные исполнители":      nil, // Russian
	"ヴァリアス・アーティスト": nil, // Japanese
}

// PatternDetector classifies by recognizable "various artists" phrases in
// the album-artist credit.
type PatternDetector struct{}

func (PatternDetector) Name() string { return "name_pattern" }

func (PatternDetector) Detect(input Input) *Result {
	normalized := textutil.NormalizeName(input.AlbumArtist)
	if normalized == "" {
		return nil
	}
	hints, ok := variousArtistsPhrases[normalized]
	if !ok {
		return nil
	}
	return &Result{
		IsCompilation:  true,
		Reason:         ReasonPatternMatch,
		Confidence:     patternConfidence,
		SecondaryHints: hints,
	}
}
