package timeline

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// AudioInfo identifies the narration track a timeline was built against.
type AudioInfo struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration"`
}

// Item is one scene: a half-open [Start,End) interval showing one image.
// Effects is the rule's opaque config blob; Source records provenance for
// debugging.
type Item struct {
	Start   float64        `json:"start"`
	End     float64        `json:"end"`
	Image   string         `json:"image"`
	Effects map[string]any `json:"effects"`
	Source  map[string]any `json:"source"`
}

// Duration returns the item's length in seconds.
func (it Item) Duration() float64 {
	return it.End - it.Start
}

// Timeline is the ordered, non-overlapping, contiguous scene sequence handed
// to the renderer.
type Timeline struct {
	Audio AudioInfo `json:"audio"`
	FPS   int       `json:"fps"`
	Items []Item    `json:"items"`
}

// Quantize snaps a timestamp to the nearest frame boundary at the given rate.
func Quantize(t float64, fps int) float64 {
	frame := 1.0 / float64(fps)
	return math.Round(t/frame) * frame
}

// Validate checks the structural guarantees the builder promises: positive
// item durations, contiguity, and an end clamped to the audio duration.
func (t *Timeline) Validate() error {
	for i, it := range t.Items {
		if it.End <= it.Start {
			return fmt.Errorf("item %d has non-positive duration [%v,%v)", i, it.Start, it.End)
		}
		if i > 0 && t.Items[i-1].End != it.Start {
			return fmt.Errorf("item %d starts at %v but item %d ends at %v", i, it.Start, i-1, t.Items[i-1].End)
		}
	}
	if n := len(t.Items); n > 0 {
		if last := t.Items[n-1].End; last > Quantize(t.Audio.Duration, t.FPS) {
			return fmt.Errorf("last item ends at %v past audio duration %v", last, t.Audio.Duration)
		}
	}
	return nil
}

// Load reads a timeline artifact from disk.
func Load(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline: %w", err)
	}
	var t Timeline
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse timeline %s: %w", path, err)
	}
	return &t, nil
}

// Save writes the timeline artifact as indented JSON.
func (t *Timeline) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write timeline: %w", err)
	}
	return nil
}
