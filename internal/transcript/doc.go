// Package transcript models word-timestamped transcriptions and their
// persisted JSON artifact.
//
// A Transcript carries an ordered word stream with per-word timestamps plus
// coarse segments that index contiguous word ranges. Segments act as fast
// locators over the word stream during alignment; when word timestamps are
// unavailable, RefineSegments splits coarse segments into sentence-like
// pieces with proportionally allocated times.
package transcript
