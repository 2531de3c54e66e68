package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ModeFullPhrase is the only supported matching mode: each rule's text is an
// atomic phrase located as a whole in the narration.
const ModeFullPhrase = "full_phrase"

// DefaultSimilarityThreshold is the fine-search score floor applied when the
// mapping file does not set one.
const DefaultSimilarityThreshold = 85

// Rule pairs an image with the phrase that triggers it. Effects is an opaque
// per-scene config blob passed through to the renderer unparsed.
type Rule struct {
	Image   string         `json:"image"`
	Text    string         `json:"text"`
	Effects map[string]any `json:"effects,omitempty"`
}

// Matching holds the matching options carried in the mapping file.
type Matching struct {
	Mode                string `json:"mode"`
	SimilarityThreshold int    `json:"similarity_threshold"`
}

// Mapping is a validated, ordered rule list plus matching options.
type Mapping struct {
	Rules    []Rule   `json:"rules"`
	Matching Matching `json:"matching"`
}

type mappingFile struct {
	Rules    []Rule `json:"rules"`
	Matching *struct {
		Mode                string `json:"mode"`
		SimilarityThreshold *int   `json:"similarity_threshold"`
	} `json:"matching"`
}

// Load reads and validates a mapping file.
func Load(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	return Parse(data)
}

// Parse validates raw mapping JSON.
func Parse(data []byte) (*Mapping, error) {
	var raw mappingFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	if len(raw.Rules) == 0 {
		return nil, fmt.Errorf("mapping must contain a non-empty rules list")
	}

	rules := make([]Rule, 0, len(raw.Rules))
	for i, r := range raw.Rules {
		image := strings.TrimSpace(r.Image)
		text := strings.TrimSpace(r.Text)
		if image == "" {
			return nil, fmt.Errorf("rule %d is missing a non-empty image", i)
		}
		if text == "" {
			return nil, fmt.Errorf("rule %d is missing a non-empty text", i)
		}
		rules = append(rules, Rule{Image: image, Text: text, Effects: r.Effects})
	}

	m := Matching{Mode: ModeFullPhrase, SimilarityThreshold: DefaultSimilarityThreshold}
	if raw.Matching != nil {
		if raw.Matching.Mode != "" {
			m.Mode = raw.Matching.Mode
		}
		if raw.Matching.SimilarityThreshold != nil {
			m.SimilarityThreshold = *raw.Matching.SimilarityThreshold
		}
	}
	if m.Mode != ModeFullPhrase {
		return nil, fmt.Errorf("matching mode %q is not supported; only %q", m.Mode, ModeFullPhrase)
	}
	if m.SimilarityThreshold < 0 || m.SimilarityThreshold > 100 {
		return nil, fmt.Errorf("matching similarity_threshold must be in 0..100, got %d", m.SimilarityThreshold)
	}

	return &Mapping{Rules: rules, Matching: m}, nil
}

// Template is the starter mapping written by "scenesync mapping init". It
// documents the effects shape the renderer understands.
func Template() []byte {
	return []byte(`{
  "rules": [
    {
      "image": "01.png",
      "text": "Full sentence or paragraph as spoken in the narration ...",
      "effects": {
        "zoom": {"type": "in", "scale": 1.1, "duration": 4},
        "motion": {"direction": "right", "intensity": 0.05},
        "fade": {"type": "in", "duration": 1}
      }
    }
  ],
  "matching": {"mode": "full_phrase", "similarity_threshold": 85}
}
`)
}
