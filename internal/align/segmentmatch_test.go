package align

import (
	"testing"

	"scenesync/internal/mapping"
	"scenesync/internal/transcript"
)

func matchSegmentsFixture() []transcript.Segment {
	return []transcript.Segment{
		{ID: 0, Start: 0.0, End: 3.0, Text: "The red balloon rises slowly."},
		{ID: 1, Start: 3.0, End: 6.0, Text: "A gentle wind carries it away."},
		{ID: 2, Start: 6.0, End: 9.0, Text: "Children wave goodbye from below."},
	}
}

func TestMatchSegmentsBasic(t *testing.T) {
	rules := []mapping.Rule{
		{Image: "01.png", Text: "the red balloon rises slowly"},
		{Image: "02.png", Text: "children wave goodbye from below"},
	}
	matches := MatchSegments(matchSegmentsFixture(), rules, 85, false)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].SegmentID != 0 || matches[0].Rule.Image != "01.png" {
		t.Errorf("match 0 = %+v", matches[0])
	}
	if matches[1].SegmentID != 2 || matches[1].Rule.Image != "02.png" {
		t.Errorf("match 1 = %+v", matches[1])
	}
	if matches[0].SegmentStart > matches[1].SegmentStart {
		t.Error("matches not chronological")
	}
}

func TestMatchSegmentsEachImageTriggersOnce(t *testing.T) {
	segments := []transcript.Segment{
		{ID: 0, Start: 0.0, End: 2.0, Text: "the red balloon rises slowly"},
		{ID: 1, Start: 2.0, End: 4.0, Text: "the red balloon rises slowly"},
	}
	rules := []mapping.Rule{{Image: "01.png", Text: "the red balloon rises slowly"}}
	matches := MatchSegments(segments, rules, 85, false)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1 (image must trigger once)", len(matches))
	}
	if matches[0].SegmentID != 0 {
		t.Errorf("triggered at segment %d, want earliest 0", matches[0].SegmentID)
	}
}

func TestMatchSegmentsBelowThresholdSkipped(t *testing.T) {
	rules := []mapping.Rule{{Image: "01.png", Text: "quantum flamingo harvest"}}
	matches := MatchSegments(matchSegmentsFixture(), rules, 85, false)
	if len(matches) != 0 {
		t.Fatalf("got %d matches, want 0", len(matches))
	}
}

func TestMatchSegmentsExactTieUsesDeterministicKey(t *testing.T) {
	// Both rules score identically against the segment; the winner is decided
	// by (normalized text, image), not rule order.
	segments := []transcript.Segment{{ID: 0, Start: 0, End: 2, Text: "the red balloon rises slowly"}}
	rules := []mapping.Rule{
		{Image: "zz.png", Text: "the red balloon rises slowly"},
		{Image: "aa.png", Text: "The red balloon rises slowly!"},
	}
	matches := MatchSegments(segments, rules, 85, false)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Rule.Image != "aa.png" {
		t.Errorf("tie broken to %s, want aa.png (lexicographic image)", matches[0].Rule.Image)
	}
}
