package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Word is a single transcribed word with its spoken time range in seconds.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is a coarse locator over a contiguous word range. WordStart and
// WordEnd index into the transcript's word sequence as a half-open range.
type Segment struct {
	ID        int     `json:"id"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Text      string  `json:"text"`
	WordStart int     `json:"word_start"`
	WordEnd   int     `json:"word_end"`
}

// Transcript is the read-only output of a transcription backend.
type Transcript struct {
	Language string    `json:"language,omitempty"`
	Duration float64   `json:"duration"`
	Words    []Word    `json:"words"`
	Segments []Segment `json:"segments"`
}

// HasWordTimestamps reports whether word-level timestamps are present.
func (t *Transcript) HasWordTimestamps() bool {
	return t != nil && len(t.Words) > 0
}

// Validate checks the structural invariants alignment depends on: word start
// times must be non-decreasing and segment word ranges must stay within the
// word sequence.
func (t *Transcript) Validate() error {
	if t == nil {
		return fmt.Errorf("transcript is nil")
	}
	for i := 1; i < len(t.Words); i++ {
		if t.Words[i].Start < t.Words[i-1].Start {
			return fmt.Errorf("word %d starts at %.3f before word %d at %.3f", i, t.Words[i].Start, i-1, t.Words[i-1].Start)
		}
	}
	for _, seg := range t.Segments {
		if seg.WordStart < 0 || seg.WordEnd < seg.WordStart {
			return fmt.Errorf("segment %d has invalid word range [%d,%d)", seg.ID, seg.WordStart, seg.WordEnd)
		}
		if len(t.Words) > 0 && seg.WordEnd > len(t.Words) {
			return fmt.Errorf("segment %d word range end %d exceeds word count %d", seg.ID, seg.WordEnd, len(t.Words))
		}
	}
	return nil
}

// Load reads a transcript artifact from disk.
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", path, err)
	}
	return &t, nil
}

// Save writes the transcript artifact as indented JSON.
func (t *Transcript) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure transcript directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
