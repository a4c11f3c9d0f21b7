package musicbrainz

import "strings"

type searchResponse struct {
	Count         int            `json:"count"`
	ReleaseGroups []releaseGroup `json:"release-groups"`
}

type releaseGroup struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Score          int            `json:"score"`
	PrimaryType    string         `json:"primary-type"`
	SecondaryTypes []string       `json:"secondary-types"`
	ArtistCredit   []artistCredit `json:"artist-credit"`
}

type artistCredit struct {
	Name string `json:"name"`
}

func (g *releaseGroup) isCompilation() bool {
	for _, secondary := range g.SecondaryTypes {
		if strings.EqualFold(secondary, "Compilation") {
			return true
		}
	}
	return false
}
