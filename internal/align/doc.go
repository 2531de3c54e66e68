// Package align maps configured phrases to their spoken onsets in a
// word-timestamped transcript.
//
// The resolver walks the rule list in order, locating for each phrase the
// earliest-starting window of transcript words whose normalized text clears a
// similarity threshold. A monotonically advancing word cursor guarantees that
// phrase k never matches before phrase k-1: the cursor is explicit state
// threaded through each resolution step, and after the full pass the start
// sequence is verified non-decreasing. Resolution is all-or-nothing; a phrase
// that cannot be located fails the run rather than silently corrupting the
// downstream chronological order.
//
// A coarse pre-filter scores the transcript's segments to shrink the word
// search range on long transcripts. It exists purely for speed: correctness
// is carried by the deterministic four-key tie-break and the cursor.
package align
