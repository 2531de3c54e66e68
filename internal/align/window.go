package align

import (
	"math"
	"strings"

	"scenesync/internal/textutil"
)

// windowMatch is a candidate window that cleared the threshold.
type windowMatch struct {
	wordIndex  int
	wordLen    int
	tokenSet   int
	edit       int
	start      float64
	windowText string
}

// betterThan reports whether m wins over other under the deterministic
// tie-break order: higher token-set score, then higher edit score, then
// earlier word index, then shorter window.
func (m *windowMatch) betterThan(other *windowMatch) bool {
	if other == nil {
		return true
	}
	if m.tokenSet != other.tokenSet {
		return m.tokenSet > other.tokenSet
	}
	if m.edit != other.edit {
		return m.edit > other.edit
	}
	if m.wordIndex != other.wordIndex {
		return m.wordIndex < other.wordIndex
	}
	return m.wordLen < other.wordLen
}

// bestWindowInRange scans every window of transcript words within
// [searchStart, searchEnd) whose length lies in a band around the phrase
// length, and returns the best candidate scoring at or above threshold.
// Returns nil when no window clears the threshold.
func bestWindowInRange(phraseNorm string, phraseLen int, words *wordIndex, searchStart, searchEnd, threshold int) *windowMatch {
	if phraseLen <= 0 {
		return nil
	}

	minLen := int(math.Max(3, math.Round(float64(phraseLen)*0.75)))
	maxLen := int(math.Round(float64(phraseLen)*1.25)) + 2
	if maxLen < minLen {
		maxLen = minLen
	}

	startLimit := searchStart
	if startLimit < 0 {
		startLimit = 0
	}
	endLimit := searchEnd
	if endLimit > len(words.norm) {
		endLimit = len(words.norm)
	}

	var best *windowMatch
	for wlen := minLen; wlen <= maxLen; wlen++ {
		if startLimit+wlen > endLimit {
			break
		}
		for i := startLimit; i <= endLimit-wlen; i++ {
			windowNorm := strings.Join(words.norm[i:i+wlen], " ")
			ts := textutil.TokenSetScore(phraseNorm, windowNorm)
			if ts < threshold {
				continue
			}
			cand := &windowMatch{
				wordIndex:  i,
				wordLen:    wlen,
				tokenSet:   ts,
				edit:       textutil.EditScore(phraseNorm, windowNorm),
				start:      words.start[i],
				windowText: strings.Join(words.raw[i:i+wlen], " "),
			}
			if cand.betterThan(best) {
				best = cand
			}
		}
	}
	return best
}
