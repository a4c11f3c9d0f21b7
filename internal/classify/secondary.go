package classify

import (
	"strings"

	"medley/internal/library"
	"medley/internal/textutil"
)

// titleKeywords maps album-title keywords to secondary release tags. These
// tags describe the release; they never influence the compilation decision.
var titleKeywords = []struct {
	keyword string
	tag     library.SecondaryType
}{
	{"soundtrack", library.SecondarySoundtrack},
	{"original motion picture", library.SecondarySoundtrack},
	{"music from the motion picture", library.SecondarySoundtrack},
	{"o.s.t", library.SecondarySoundtrack},
	{"live at", library.SecondaryLive},
	{"live in", library.SecondaryLive},
	{"live from", library.SecondaryLive},
	{"unplugged", library.SecondaryLive},
	{"in concert", library.SecondaryLive},
	{"remixes", library.SecondaryRemix},
	{"remixed", library.SecondaryRemix},
	{"remix album", library.SecondaryRemix},
	{"dj mix", library.SecondaryDJMix},
	{"dj-mix", library.SecondaryDJMix},
	{"mixed by", library.SecondaryDJMix},
	{"continuous mix", library.SecondaryDJMix},
	{"mixtape", library.SecondaryMixtape},
	{"demos", library.SecondaryDemo},
	{"demo tape", library.SecondaryDemo},
	{"demo recordings", library.SecondaryDemo},
	{"audiobook", library.SecondarySpokenword},
	{"spoken word", library.SecondarySpokenword},
}

// TitleTags derives secondary release tags from an album title.
func TitleTags(title string) []library.SecondaryType {
	normalized := textutil.NormalizeName(title)
	if normalized == "" {
		return nil
	}
	var tags []library.SecondaryType
	seen := make(map[library.SecondaryType]struct{})
	for _, entry := range titleKeywords {
		if !strings.Contains(normalized, entry.keyword) {
			continue
		}
		if _, dup := seen[entry.tag]; dup {
			continue
		}
		seen[entry.tag] = struct{}{}
		tags = append(tags, entry.tag)
	}
	return tags
}

// mergeSecondary combines existing album tags, detector hints, and title
// tags, forcing the compilation tag to match the decision.
func mergeSecondary(existing []library.SecondaryType, isCompilation bool, hints ...[]library.SecondaryType) []library.SecondaryType {
	seen := make(map[library.SecondaryType]struct{})
	var merged []library.SecondaryType
	add := func(tag library.SecondaryType) {
		if tag == library.SecondaryCompilation {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	for _, tag := range existing {
		add(tag)
	}
	for _, hintSet := range hints {
		for _, tag := range hintSet {
			add(tag)
		}
	}
	if isCompilation {
		merged = append([]library.SecondaryType{library.SecondaryCompilation}, merged...)
	}
	return merged
}
