package align

import (
	"encoding/json"
	"fmt"
	"os"

	"scenesync/internal/mapping"
)

// Similarity carries the two scores the winning window achieved.
type Similarity struct {
	TokenSet int `json:"token_set_score"`
	Edit     int `json:"edit_score"`
}

// Match records which transcript words the phrase resolved to.
type Match struct {
	WindowText string `json:"matched_window_text"`
	WordIndex  int    `json:"word_index"`
	WordLen    int    `json:"word_len"`
}

// ResolvedPhrase is one rule bound to its spoken onset. The sequence produced
// by Resolve is in rule order with non-decreasing Start values.
type ResolvedPhrase struct {
	Index      int            `json:"index"`
	Image      string         `json:"image"`
	Text       string         `json:"text"`
	Effects    map[string]any `json:"effects,omitempty"`
	Start      float64        `json:"start"`
	Similarity Similarity     `json:"similarity"`
	Match      Match          `json:"match"`
}

// SegmentMatch binds a transcript segment to a rule in the degraded
// segment-level matching path.
type SegmentMatch struct {
	SegmentID    int          `json:"segment_id"`
	SegmentStart float64      `json:"segment_start"`
	SegmentEnd   float64      `json:"segment_end"`
	SegmentText  string       `json:"segment_text"`
	Rule         mapping.Rule `json:"rule"`
	Similarity   int          `json:"similarity"`
}

// SaveResolved writes the resolved-phrase artifact as indented JSON.
func SaveResolved(path string, phrases []ResolvedPhrase) error {
	data, err := json.MarshalIndent(phrases, "", "  ")
	if err != nil {
		return fmt.Errorf("encode resolved phrases: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write resolved phrases: %w", err)
	}
	return nil
}

// LoadResolved reads a resolved-phrase artifact.
func LoadResolved(path string) ([]ResolvedPhrase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resolved phrases: %w", err)
	}
	var phrases []ResolvedPhrase
	if err := json.Unmarshal(data, &phrases); err != nil {
		return nil, fmt.Errorf("parse resolved phrases %s: %w", path, err)
	}
	return phrases, nil
}
