package timeline

import (
	"math"
	"testing"

	"scenesync/internal/align"
	"scenesync/internal/mapping"
)

func phrases(starts ...float64) []align.ResolvedPhrase {
	images := []string{"a.png", "b.png", "c.png", "d.png"}
	out := make([]align.ResolvedPhrase, 0, len(starts))
	for i, s := range starts {
		out = append(out, align.ResolvedPhrase{
			Index: i,
			Image: images[i%len(images)],
			Text:  "phrase",
			Start: s,
		})
	}
	return out
}

func TestBuildFromPhrasesBasic(t *testing.T) {
	audio := AudioInfo{Path: "audio.mp3", Duration: 6.0}
	tl := BuildFromPhrases(phrases(0.0, 5.0), audio, 30, nil)

	if len(tl.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(tl.Items))
	}
	if tl.Items[0].Start != 0.0 || tl.Items[0].End != 5.0 || tl.Items[0].Image != "a.png" {
		t.Errorf("item 0 = %+v", tl.Items[0])
	}
	if tl.Items[1].Start != 5.0 || tl.Items[1].End != 6.0 || tl.Items[1].Image != "b.png" {
		t.Errorf("item 1 = %+v", tl.Items[1])
	}
	if err := tl.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuildCoverageAndContiguity(t *testing.T) {
	audio := AudioInfo{Path: "audio.mp3", Duration: 12.34}
	fps := 25
	tl := BuildFromPhrases(phrases(0.01, 3.7, 7.21, 9.99), audio, fps, nil)

	if len(tl.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(tl.Items))
	}
	var total float64
	for i, it := range tl.Items {
		total += it.Duration()
		if i > 0 && tl.Items[i-1].End != it.Start {
			t.Errorf("gap between item %d and %d: %v != %v", i-1, i, tl.Items[i-1].End, it.Start)
		}
	}
	first := tl.Items[0].Start
	if first > 1.0/float64(fps) {
		t.Errorf("first item starts at %v, more than one frame past 0", first)
	}
	wantTotal := Quantize(audio.Duration, fps) - first
	if math.Abs(total-wantTotal) > 1e-9 {
		t.Errorf("durations sum to %v, want %v", total, wantTotal)
	}
	if last := tl.Items[3].End; last != Quantize(audio.Duration, fps) {
		t.Errorf("last end = %v, want quantized duration %v", last, Quantize(audio.Duration, fps))
	}
}

func TestBuildOrderPreserved(t *testing.T) {
	// Rule order defines item order even though the builder never sorts.
	audio := AudioInfo{Duration: 10}
	tl := BuildFromPhrases(phrases(1.0, 4.0, 8.0), audio, 30, nil)
	want := []string{"a.png", "b.png", "c.png"}
	for i, it := range tl.Items {
		if it.Image != want[i] {
			t.Errorf("item %d image = %s, want %s", i, it.Image, want[i])
		}
	}
}

func TestBuildEmptyInput(t *testing.T) {
	audio := AudioInfo{Path: "audio.mp3", Duration: 6.0}
	tl := BuildFromPhrases(nil, audio, 30, nil)
	if tl == nil {
		t.Fatal("BuildFromPhrases(nil) returned nil timeline")
	}
	if len(tl.Items) != 0 {
		t.Errorf("got %d items, want 0", len(tl.Items))
	}
	if tl.Audio.Path != "audio.mp3" || tl.FPS != 30 {
		t.Errorf("audio metadata not carried: %+v", tl)
	}
}

func TestBuildDegenerateForcedToOneFrame(t *testing.T) {
	// Both starts quantize to the same frame at 30fps.
	audio := AudioInfo{Duration: 6.0}
	tl := BuildFromPhrases(phrases(1.0, 1.01), audio, 30, nil)
	if len(tl.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(tl.Items))
	}
	frame := 1.0 / 30.0
	if got := tl.Items[0].Duration(); math.Abs(got-frame) > 1e-9 {
		t.Errorf("first item duration = %v, want exactly one frame %v", got, frame)
	}
}

func TestBuildClampsNegativeStart(t *testing.T) {
	audio := AudioInfo{Duration: 6.0}
	tl := BuildFromPhrases(phrases(-0.4, 3.0), audio, 30, nil)
	if tl.Items[0].Start != 0 {
		t.Errorf("negative start not clamped: %v", tl.Items[0].Start)
	}
}

func TestBuildDropsStartPastAudioEnd(t *testing.T) {
	audio := AudioInfo{Duration: 6.0}
	tl := BuildFromPhrases(phrases(0.0, 9.0), audio, 30, nil)
	if len(tl.Items) != 1 {
		t.Fatalf("got %d items, want 1 (out-of-range phrase dropped)", len(tl.Items))
	}
	if tl.Items[0].End != 6.0 {
		t.Errorf("surviving item end = %v, want clamped 6.0", tl.Items[0].End)
	}
}

func TestBuildDropsStartAtAudioEnd(t *testing.T) {
	// A cue starting exactly at the quantized audio end has no frame left to
	// show; it must be dropped, not forced into a zero-duration item.
	audio := AudioInfo{Duration: 6.0}
	tl := BuildFromPhrases(phrases(0.0, 6.0), audio, 30, nil)
	if len(tl.Items) != 1 {
		t.Fatalf("got %d items, want 1 (boundary phrase dropped)", len(tl.Items))
	}
	if tl.Items[0].Start != 0.0 || tl.Items[0].End != 6.0 {
		t.Errorf("surviving item = %+v, want [0,6)", tl.Items[0])
	}
	if err := tl.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuildFromSegmentMatches(t *testing.T) {
	audio := AudioInfo{Duration: 10.0}
	matches := []align.SegmentMatch{
		{SegmentID: 0, SegmentStart: 0.5, SegmentEnd: 3.0, SegmentText: "one", Rule: mapping.Rule{Image: "x.png", Text: "one"}, Similarity: 95},
		{SegmentID: 1, SegmentStart: 6.0, SegmentEnd: 9.0, SegmentText: "two", Rule: mapping.Rule{Image: "y.png", Text: "two"}, Similarity: 90},
	}
	tl := BuildFromSegmentMatches(matches, audio, 30, nil)
	if len(tl.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(tl.Items))
	}
	if tl.Items[0].Image != "x.png" || tl.Items[1].Start != 6.0 {
		t.Errorf("items = %+v", tl.Items)
	}
	if tl.Items[0].Source["segment_id"] != 0 {
		t.Errorf("source provenance missing: %+v", tl.Items[0].Source)
	}
}

func TestBuildDeterministic(t *testing.T) {
	audio := AudioInfo{Duration: 12.34}
	a := BuildFromPhrases(phrases(0.01, 3.7, 7.21), audio, 25, nil)
	b := BuildFromPhrases(phrases(0.01, 3.7, 7.21), audio, 25, nil)
	if len(a.Items) != len(b.Items) {
		t.Fatalf("item counts differ: %d vs %d", len(a.Items), len(b.Items))
	}
	for i := range a.Items {
		if a.Items[i].Start != b.Items[i].Start || a.Items[i].End != b.Items[i].End {
			t.Errorf("item %d differs: %+v vs %+v", i, a.Items[i], b.Items[i])
		}
	}
}
