// Package pipeline orchestrates the end-to-end run: transcription, phrase
// alignment, timeline assembly, and rendering.
//
// Each stage writes its artifact into the output directory so a run can be
// inspected or resumed piecemeal via the stage subcommands. A file lock on
// the output directory keeps concurrent runs from clobbering each other's
// artifacts.
package pipeline
