package dedup

import (
	"strings"

	"kunstquiz/types"
)

// Predicate is a boolean classification over a single record. The
// lexicon-driven classifiers in this package all satisfy it, so
// callers can swap in their own heuristics.
type Predicate func(types.Record) bool

// selfPortraitIndicators are title substrings that mark a likely
// self-portrait. The dataset is mostly Norwegian art, so Norwegian and
// French variants sit alongside the English ones.
var selfPortraitIndicators = []string{
	"self-portrait",
	"self portrait",
	"selvportrett",
	"selv portrett",
	"autoportret",
	"auto-portrait",
	"selfie",
	"selv",
}

// minArtistTokenLen keeps initials and short name particles ("J.",
// "de") from matching almost every title.
const minArtistTokenLen = 3

// IsSelfPortrait reports whether a record plausibly depicts the artist
// themselves. It is a heuristic safety valve for duplicate removal,
// not ground truth: false positives and negatives are expected.
func IsSelfPortrait(rec types.Record) bool {
	title := strings.ToLower(rec.Title())
	if title == "" {
		return false
	}

	for _, indicator := range selfPortraitIndicators {
		if strings.Contains(title, indicator) {
			return true
		}
	}

	// "Munch - Self Portrait" style titles embed the artist's name.
	// Only full names are trusted; a single-token artist is too
	// ambiguous to match on.
	artist := strings.ToLower(rec.Artist())
	tokens := strings.Fields(artist)
	if len(tokens) >= 2 {
		for _, token := range tokens {
			if len(token) >= minArtistTokenLen && strings.Contains(title, token) {
				return true
			}
		}
	}

	return false
}
