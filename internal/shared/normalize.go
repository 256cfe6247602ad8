package shared

import (
	"regexp"
	"strings"
)

var (
	quoteRe      = regexp.MustCompile(`['"]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	titleByRe    = regexp.MustCompile(`(?i)^['"]?([^'"]+?)['"]?\s+by\s+(.+)$`)
)

// NormalizeTrackKey builds a comparison key from a track title and artist.
//
// Quotes and punctuation are stripped and whitespace collapsed so the same song
// reported by different providers produces the same key.
func NormalizeTrackKey(title, artist string) string {
	t := normalizeText(title)
	a := normalizeText(artist)
	if a == "" {
		return t
	}
	return t + "|" + a
}

func normalizeText(s string) string {
	s = quoteRe.ReplaceAllString(strings.ToLower(s), "")
	s = nonWordRe.ReplaceAllString(s, "")
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// SplitTitleArtist parses a "'Song' by Artist" style string into its parts.
//
// Returns the whole string as the title with an empty artist when no pattern matches.
func SplitTitleArtist(s string) (title, artist string) {
	if m := titleByRe.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return strings.TrimSpace(s), ""
}

// StringSimilarity computes word-overlap similarity between two strings in [0, 1].
//
// Exact normalized matches score 1.0, substring containment 0.9, otherwise the
// Jaccard index of the word sets.
func StringSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	na := normalizeText(a)
	nb := normalizeText(b)

	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.9
	}

	wordsA := strings.Fields(na)
	wordsB := strings.Fields(nb)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	setA := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		setA[w] = struct{}{}
	}

	intersection := 0
	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		if _, dup := setB[w]; dup {
			continue
		}
		setB[w] = struct{}{}
		if _, ok := setA[w]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// MatchScore scores how well a search result matches a target track.
//
// Title similarity is weighted at 0.6 and artist similarity at 0.4.
func MatchScore(targetTitle, targetArtist, resultTitle, resultArtist string) float64 {
	return StringSimilarity(targetTitle, resultTitle)*0.6 + StringSimilarity(targetArtist, resultArtist)*0.4
}
