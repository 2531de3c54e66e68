package align

import (
	"sort"
	"strings"

	"scenesync/internal/mapping"
	"scenesync/internal/textutil"
	"scenesync/internal/transcript"
)

type normRule struct {
	rule mapping.Rule
	norm string
}

// tieKeyLess is the deterministic tie-break for equal segment scores:
// normalized phrase text first, then image filename. Rule order is
// intentionally not part of the key.
func (a *normRule) tieKeyLess(b *normRule) bool {
	if a.norm != b.norm {
		return a.norm < b.norm
	}
	return a.rule.Image < b.rule.Image
}

// MatchSegments binds transcript segments to rules without word timestamps:
// each segment triggers at most one image, each image triggers at most once at
// its earliest matching segment. When a segment matches several rules above
// the threshold the highest score wins; exact ties fall back to the
// deterministic tie key. The result is sorted chronologically by
// (segment start, segment id).
//
// This is the degraded path behind the word-level resolver: it triggers at
// segment starts, not phrase onsets, so callers should refine segments first.
func MatchSegments(segments []transcript.Segment, rules []mapping.Rule, threshold int, foldAccents bool) []SegmentMatch {
	normRules := make([]normRule, 0, len(rules))
	for _, rule := range rules {
		normRules = append(normRules, normRule{rule: rule, norm: normalizeText(rule.Text, foldAccents)})
	}

	triggeredImages := make(map[string]struct{})
	triggeredTexts := make(map[string]struct{})

	var matches []SegmentMatch
	for _, seg := range segments {
		segRaw := strings.TrimSpace(seg.Text)
		if segRaw == "" {
			continue
		}
		segNorm := normalizeText(segRaw, foldAccents)

		bestScore := -1
		var best *normRule
		for i := range normRules {
			nr := &normRules[i]
			if _, ok := triggeredImages[nr.rule.Image]; ok {
				continue
			}
			if _, ok := triggeredTexts[nr.norm]; ok {
				continue
			}
			score := textutil.TokenSetScore(segNorm, nr.norm)
			if score < threshold {
				continue
			}
			switch {
			case best == nil || score > bestScore:
				bestScore = score
				best = nr
			case score == bestScore && nr.tieKeyLess(best):
				best = nr
			}
		}
		if best == nil {
			continue
		}

		triggeredImages[best.rule.Image] = struct{}{}
		triggeredTexts[best.norm] = struct{}{}
		matches = append(matches, SegmentMatch{
			SegmentID:    seg.ID,
			SegmentStart: seg.Start,
			SegmentEnd:   seg.End,
			SegmentText:  segRaw,
			Rule:         best.rule,
			Similarity:   bestScore,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].SegmentStart != matches[j].SegmentStart {
			return matches[i].SegmentStart < matches[j].SegmentStart
		}
		return matches[i].SegmentID < matches[j].SegmentID
	})
	return matches
}
