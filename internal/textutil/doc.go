// Package textutil provides text canonicalization and fuzzy similarity
// scoring for phrase alignment.
//
// Normalization lowercases text, replaces punctuation and symbols with
// spaces, and collapses whitespace so transcribed speech and configured
// phrases compare on equal footing. Scores are integer percentages in
// [0,100]: TokenSetScore tolerates word reordering and filler words,
// EditScore is classic normalized edit similarity.
package textutil
