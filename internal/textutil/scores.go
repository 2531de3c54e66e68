package textutil

import fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

// TokenSetScore measures similarity between two strings tolerant of word
// reordering and extra or missing filler words, scaled to 0..100.
func TokenSetScore(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return fuzzy.TokenSetRatio(a, b)
}

// EditScore measures normalized edit-distance similarity, scaled to 0..100.
func EditScore(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return fuzzy.Ratio(a, b)
}
