package timeline

import (
	"io"
	"log/slog"

	"scenesync/internal/align"
)

// cue is a start-time/image pair the builder consumes; provenance and effects
// ride along untouched.
type cue struct {
	start   float64
	image   string
	effects map[string]any
	source  map[string]any
}

// BuildFromPhrases assembles a timeline from resolved phrases. Item order is
// the phrase (rule) order; it is never re-sorted by time.
func BuildFromPhrases(phrases []align.ResolvedPhrase, audio AudioInfo, fps int, logger *slog.Logger) *Timeline {
	cues := make([]cue, 0, len(phrases))
	for _, p := range phrases {
		cues = append(cues, cue{
			start:   p.Start,
			image:   p.Image,
			effects: p.Effects,
			source: map[string]any{
				"phrase_index": p.Index,
				"phrase_text":  p.Text,
				"similarity": map[string]any{
					"token_set_score": p.Similarity.TokenSet,
					"edit_score":      p.Similarity.Edit,
				},
				"matched_window_text": p.Match.WindowText,
			},
		})
	}
	return build(cues, audio, fps, logger)
}

// BuildFromSegmentMatches assembles a timeline from segment-level matches.
// MatchSegments already sorts its output chronologically, so item order and
// time order coincide here.
func BuildFromSegmentMatches(matches []align.SegmentMatch, audio AudioInfo, fps int, logger *slog.Logger) *Timeline {
	cues := make([]cue, 0, len(matches))
	for _, m := range matches {
		cues = append(cues, cue{
			start:   m.SegmentStart,
			image:   m.Rule.Image,
			effects: m.Rule.Effects,
			source: map[string]any{
				"segment_id":   m.SegmentID,
				"segment_text": m.SegmentText,
				"similarity":   m.Similarity,
				"matched_text": m.Rule.Text,
			},
		})
	}
	return build(cues, audio, fps, logger)
}

func build(cues []cue, audio AudioInfo, fps int, logger *slog.Logger) *Timeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	tl := &Timeline{Audio: audio, FPS: fps, Items: []Item{}}
	if len(cues) == 0 {
		return tl
	}

	frame := 1.0 / float64(fps)
	limit := Quantize(audio.Duration, fps)
	for i, c := range cues {
		start := Quantize(c.start, fps)
		if start < 0 {
			start = 0
		}
		// A start at the quantized end leaves no frame to show.
		if start > audio.Duration || start >= limit {
			logger.Debug("dropping cue past audio end", "image", c.image, "start", start, "duration", audio.Duration)
			continue
		}

		end := limit
		if i+1 < len(cues) {
			end = Quantize(cues[i+1].start, fps)
		}
		if end <= start {
			forced := Quantize(start+frame, fps)
			if limit < forced {
				forced = limit
			}
			logger.Debug("degenerate scene forced to one frame", "image", c.image, "start", start, "end", end, "forced_end", forced)
			end = forced
		}

		effects := c.effects
		if effects == nil {
			effects = map[string]any{}
		}
		tl.Items = append(tl.Items, Item{Start: start, End: end, Image: c.image, Effects: effects, Source: c.source})
	}

	// Safety clamp; quantized next-starts can land past the audio end.
	for i := range tl.Items {
		if tl.Items[i].End > limit {
			tl.Items[i].End = limit
		}
	}
	return tl
}
