package transcript

import (
	"sort"
	"strings"
	"unicode"
)

// minSubDuration is the floor for a refined part's duration when proportional
// allocation collapses it to zero or below.
const minSubDuration = 1e-3

// RefineSegments splits coarse segments into sentence-like sub-segments.
//
// Each segment's text is split at whitespace that follows sentence-terminal
// punctuation. Single-sentence segments pass through unchanged apart from a
// fresh sequential id. Multi-sentence segments allocate each part a time
// sub-range proportional to its character length, walking a cursor from the
// segment start; the last part always ends exactly at the segment end.
//
// This is an approximation used only when word-level timestamps are
// unavailable: it apportions time within a coarse bucket rather than locating
// a phrase's true onset. The refined segments carry no word indices.
func RefineSegments(segments []Segment) []Segment {
	refined := make([]Segment, 0, len(segments))
	nextID := 0

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if seg.End <= seg.Start {
			continue
		}

		parts := splitSentences(text)
		if len(parts) <= 1 {
			refined = append(refined, Segment{ID: nextID, Start: seg.Start, End: seg.End, Text: text})
			nextID++
			continue
		}

		totalLen := 0
		for _, p := range parts {
			totalLen += len(p)
		}
		if totalLen <= 0 {
			refined = append(refined, Segment{ID: nextID, Start: seg.Start, End: seg.End, Text: text})
			nextID++
			continue
		}

		dur := seg.End - seg.Start
		cursor := seg.Start
		for i, p := range parts {
			frac := float64(len(p)) / float64(totalLen)
			partStart := cursor
			partEnd := cursor + dur*frac
			if i == len(parts)-1 {
				partEnd = seg.End
			}
			if partEnd <= partStart {
				partEnd = seg.End
				if forced := partStart + minSubDuration; forced < partEnd {
					partEnd = forced
				}
			}
			refined = append(refined, Segment{ID: nextID, Start: partStart, End: partEnd, Text: p})
			nextID++
			cursor = partEnd
		}
	}

	sort.SliceStable(refined, func(i, j int) bool {
		if refined[i].Start != refined[j].Start {
			return refined[i].Start < refined[j].Start
		}
		return refined[i].ID < refined[j].ID
	})
	return refined
}

// splitSentences cuts text at whitespace following '.', '!' or '?'. The
// punctuation stays with the preceding part and the separating whitespace is
// dropped. Empty parts are skipped.
func splitSentences(text string) []string {
	var parts []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		part := strings.TrimSpace(string(runes[start : i+1]))
		if part != "" {
			parts = append(parts, part)
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		part := strings.TrimSpace(string(runes[start:]))
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
