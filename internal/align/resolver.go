package align

import (
	"io"
	"log/slog"
	"strings"

	"scenesync/internal/mapping"
	"scenesync/internal/textutil"
	"scenesync/internal/transcript"
)

// Options tunes the resolver. The coarse parameters are heuristics inherited
// from field use; keep the defaults unless a transcript demonstrates they
// mismatch.
type Options struct {
	// Threshold is the minimum token-set score for the fine windowed search.
	Threshold int
	// CoarseFloor is the lowest acceptable coarse-localization score.
	CoarseFloor int
	// CoarseMargin is subtracted from Threshold for coarse localization.
	CoarseMargin int
	// SearchPad widens the word search range around a coarse hit, in words.
	SearchPad int
	// FoldAccents folds accented letters to their base form before
	// normalization. Off, accented letters are stripped with the punctuation.
	FoldAccents bool
}

// DefaultOptions returns resolver options with the stock heuristics.
func DefaultOptions() Options {
	return Options{
		Threshold:    mapping.DefaultSimilarityThreshold,
		CoarseFloor:  40,
		CoarseMargin: 15,
		SearchPad:    20,
	}
}

// Resolver locates phrase onsets in a transcript.
type Resolver struct {
	opts   Options
	logger *slog.Logger
}

// NewResolver builds a resolver. A nil logger disables diagnostics.
func NewResolver(opts Options, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Threshold <= 0 {
		opts.Threshold = mapping.DefaultSimilarityThreshold
	}
	if opts.CoarseFloor <= 0 {
		opts.CoarseFloor = 40
	}
	if opts.CoarseMargin <= 0 {
		opts.CoarseMargin = 15
	}
	if opts.SearchPad <= 0 {
		opts.SearchPad = 20
	}
	return &Resolver{opts: opts, logger: logger}
}

func normalizeText(s string, foldAccents bool) string {
	if foldAccents {
		s = textutil.FoldAccents(s)
	}
	return textutil.Normalize(s)
}

// wordIndex holds the pre-normalized word stream the search runs over.
type wordIndex struct {
	raw   []string
	norm  []string
	start []float64
}

type coarseSegment struct {
	wordStart int
	wordEnd   int
	textNorm  string
}

// Resolve maps every rule, in rule order, to its spoken onset. The returned
// sequence has one entry per rule with non-decreasing start times. Any phrase
// that cannot be located above the threshold aborts the whole resolution.
func (r *Resolver) Resolve(rules []mapping.Rule, tr *transcript.Transcript) ([]ResolvedPhrase, error) {
	if tr == nil || !tr.HasWordTimestamps() {
		return nil, ErrNoWordTimestamps
	}

	words := &wordIndex{
		raw:   make([]string, len(tr.Words)),
		norm:  make([]string, len(tr.Words)),
		start: make([]float64, len(tr.Words)),
	}
	for i, w := range tr.Words {
		words.raw[i] = strings.TrimSpace(w.Text)
		words.norm[i] = normalizeText(w.Text, r.opts.FoldAccents)
		words.start[i] = w.Start
	}

	segments := make([]coarseSegment, len(tr.Segments))
	for i, s := range tr.Segments {
		segments[i] = coarseSegment{
			wordStart: s.WordStart,
			wordEnd:   s.WordEnd,
			textNorm:  normalizeText(s.Text, r.opts.FoldAccents),
		}
	}

	resolved := make([]ResolvedPhrase, 0, len(rules))
	cursor := 0
	for idx, rule := range rules {
		next, phrase, err := r.resolveOne(cursor, idx, rule, words, segments)
		if err != nil {
			return nil, err
		}
		cursor = next
		resolved = append(resolved, phrase)
	}

	for i := 1; i < len(resolved); i++ {
		if resolved[i].Start < resolved[i-1].Start {
			return nil, &OrderingError{Index: i, Start: resolved[i].Start, PrevStart: resolved[i-1].Start}
		}
	}
	return resolved, nil
}

// resolveOne locates a single phrase after the cursor and returns the
// advanced cursor alongside the resolution.
func (r *Resolver) resolveOne(cursor, idx int, rule mapping.Rule, words *wordIndex, segments []coarseSegment) (int, ResolvedPhrase, error) {
	phraseNorm := normalizeText(rule.Text, r.opts.FoldAccents)
	phraseLen := len(strings.Fields(phraseNorm))

	searchStart, searchEnd := r.searchRange(cursor, phraseNorm, words, segments)

	best := bestWindowInRange(phraseNorm, phraseLen, words, searchStart, searchEnd, r.opts.Threshold)
	if best == nil {
		return cursor, ResolvedPhrase{}, &UnresolvedPhraseError{Index: idx, Text: rule.Text, Threshold: r.opts.Threshold}
	}

	r.logger.Debug("phrase resolved",
		"index", idx,
		"image", rule.Image,
		"start", best.start,
		"word_index", best.wordIndex,
		"word_len", best.wordLen,
		"token_set_score", best.tokenSet,
		"edit_score", best.edit,
	)

	phrase := ResolvedPhrase{
		Index:   idx,
		Image:   rule.Image,
		Text:    rule.Text,
		Effects: rule.Effects,
		Start:   best.start,
		Similarity: Similarity{
			TokenSet: best.tokenSet,
			Edit:     best.edit,
		},
		Match: Match{
			WindowText: best.windowText,
			WordIndex:  best.wordIndex,
			WordLen:    best.wordLen,
		},
	}
	return best.wordIndex + 1, phrase, nil
}

// searchRange picks the word range the fine search will scan. When a segment
// after the cursor scores well enough against the phrase, the range is a
// padded window around that segment, clipped to never precede the cursor;
// otherwise the whole remaining word stream is searched.
func (r *Resolver) searchRange(cursor int, phraseNorm string, words *wordIndex, segments []coarseSegment) (int, int) {
	bestScore := -1
	var best *coarseSegment
	for i := range segments {
		seg := &segments[i]
		if seg.wordEnd <= cursor {
			continue
		}
		score := textutil.TokenSetScore(phraseNorm, seg.textNorm)
		if score > bestScore {
			bestScore = score
			best = seg
		}
	}

	coarseThreshold := r.opts.Threshold - r.opts.CoarseMargin
	if coarseThreshold < r.opts.CoarseFloor {
		coarseThreshold = r.opts.CoarseFloor
	}
	if best == nil || bestScore < coarseThreshold {
		return cursor, len(words.norm)
	}

	start := best.wordStart - r.opts.SearchPad
	if start < cursor {
		start = cursor
	}
	end := best.wordEnd + r.opts.SearchPad
	if end > len(words.norm) {
		end = len(words.norm)
	}
	return start, end
}
