package align

import (
	"errors"
	"fmt"
)

// ErrNoWordTimestamps signals a transcript without word timestamps; the
// word-level resolver cannot proceed.
var ErrNoWordTimestamps = errors.New("transcript has no word timestamps; re-run transcription with word timestamps enabled")

// UnresolvedPhraseError reports a phrase no window could match above the
// threshold within its allowed search range. Fatal for the whole run.
type UnresolvedPhraseError struct {
	Index     int
	Text      string
	Threshold int
}

func (e *UnresolvedPhraseError) Error() string {
	return fmt.Sprintf("could not resolve phrase %d to a timestamp above threshold %d: %q", e.Index, e.Threshold, e.Text)
}

// OrderingError reports a resolved start sequence that is not monotonic.
// This indicates ambiguous matching (for example a near-duplicate of an
// earlier phrase) and is never silently reordered.
type OrderingError struct {
	Index     int
	Start     float64
	PrevStart float64
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("resolved phrase %d starts at %.3f before its predecessor at %.3f; adjust phrases or raise the threshold", e.Index, e.Start, e.PrevStart)
}
