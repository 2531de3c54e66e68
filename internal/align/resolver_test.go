package align

import (
	"errors"
	"testing"

	"scenesync/internal/mapping"
	"scenesync/internal/transcript"
)

// wordsAt builds a word sequence starting at the given time, each word
// lasting half a second.
func wordsAt(start float64, texts ...string) []transcript.Word {
	words := make([]transcript.Word, 0, len(texts))
	t := start
	for _, text := range texts {
		words = append(words, transcript.Word{Text: text, Start: t, End: t + 0.5})
		t += 0.5
	}
	return words
}

func narrationTranscript() *transcript.Transcript {
	words := wordsAt(0.0, "the", "red", "balloon", "rises", "slowly")
	words = append(words, wordsAt(6.0, "children", "wave", "goodbye", "from", "below")...)
	return &transcript.Transcript{
		Language: "en",
		Duration: 9.0,
		Words:    words,
		Segments: []transcript.Segment{
			{ID: 0, Start: 0.0, End: 2.5, Text: "The red balloon rises slowly.", WordStart: 0, WordEnd: 5},
			{ID: 1, Start: 6.0, End: 8.5, Text: "Children wave goodbye from below.", WordStart: 5, WordEnd: 10},
		},
	}
}

func narrationRules() []mapping.Rule {
	return []mapping.Rule{
		{Image: "01.png", Text: "The red balloon rises slowly"},
		{Image: "02.png", Text: "Children wave goodbye from below"},
	}
}

func TestResolveBasic(t *testing.T) {
	r := NewResolver(DefaultOptions(), nil)
	resolved, err := r.Resolve(narrationRules(), narrationTranscript())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("got %d resolved phrases, want 2", len(resolved))
	}
	if resolved[0].Start != 0.0 {
		t.Errorf("phrase 0 start = %v, want 0.0", resolved[0].Start)
	}
	if resolved[1].Start != 6.0 {
		t.Errorf("phrase 1 start = %v, want 6.0", resolved[1].Start)
	}
	if resolved[0].Image != "01.png" || resolved[1].Image != "02.png" {
		t.Errorf("rule order not preserved: %+v", resolved)
	}
	if resolved[0].Similarity.TokenSet != 100 || resolved[0].Similarity.Edit != 100 {
		t.Errorf("exact phrase scored %+v, want 100/100", resolved[0].Similarity)
	}
	if resolved[1].Match.WordIndex != 5 || resolved[1].Match.WordLen != 5 {
		t.Errorf("phrase 1 match = %+v, want words [5,10)", resolved[1].Match)
	}
}

func TestResolveTranscriptionNoise(t *testing.T) {
	// Transcribed words differ slightly from the configured phrase; the
	// token-set score must still clear the threshold.
	tr := narrationTranscript()
	rules := []mapping.Rule{
		{Image: "01.png", Text: "the red balloon rises so slowly"},
		{Image: "02.png", Text: "children wave goodbye from below"},
	}
	r := NewResolver(DefaultOptions(), nil)
	resolved, err := r.Resolve(rules, tr)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved[0].Start != 0.0 {
		t.Errorf("phrase 0 start = %v, want 0.0", resolved[0].Start)
	}
}

func TestResolveMonotonicCursor(t *testing.T) {
	// The same phrase occurs twice; the second rule must match strictly
	// after the first rule's window start.
	words := wordsAt(0.0, "the", "red", "balloon", "rises", "slowly")
	words = append(words, wordsAt(5.0, "and", "again", "the", "red", "balloon", "rises", "slowly")...)
	tr := &transcript.Transcript{Duration: 10.0, Words: words}
	rules := []mapping.Rule{
		{Image: "01.png", Text: "the red balloon rises slowly"},
		{Image: "02.png", Text: "the red balloon rises slowly"},
	}
	r := NewResolver(DefaultOptions(), nil)
	resolved, err := r.Resolve(rules, tr)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved[1].Match.WordIndex <= resolved[0].Match.WordIndex {
		t.Errorf("cursor not monotonic: %d then %d", resolved[0].Match.WordIndex, resolved[1].Match.WordIndex)
	}
	if resolved[1].Start < resolved[0].Start {
		t.Errorf("starts not monotonic: %v then %v", resolved[0].Start, resolved[1].Start)
	}
}

func TestResolveUnresolvablePhrase(t *testing.T) {
	rules := append(narrationRules(), mapping.Rule{Image: "03.png", Text: "completely unrelated quantum flamingo harvest"})
	r := NewResolver(DefaultOptions(), nil)
	_, err := r.Resolve(rules, narrationTranscript())
	if err == nil {
		t.Fatal("Resolve succeeded with an unmatchable phrase")
	}
	var unresolved *UnresolvedPhraseError
	if !errors.As(err, &unresolved) {
		t.Fatalf("error type = %T (%v), want *UnresolvedPhraseError", err, err)
	}
	if unresolved.Index != 2 {
		t.Errorf("error index = %d, want 2", unresolved.Index)
	}
	if unresolved.Text == "" {
		t.Error("error does not carry the phrase text")
	}
}

func TestResolveNoWordTimestamps(t *testing.T) {
	tr := &transcript.Transcript{
		Duration: 5.0,
		Segments: []transcript.Segment{{ID: 0, Start: 0, End: 5, Text: "segment only"}},
	}
	r := NewResolver(DefaultOptions(), nil)
	_, err := r.Resolve(narrationRules(), tr)
	if !errors.Is(err, ErrNoWordTimestamps) {
		t.Fatalf("err = %v, want ErrNoWordTimestamps", err)
	}
}

func TestResolveOrderingViolation(t *testing.T) {
	// A transcript that breaks the non-decreasing word-start precondition can
	// produce a later word index with an earlier start; the post-pass check
	// must refuse it rather than reorder.
	words := wordsAt(5.0, "alpha", "beta", "gamma", "delta")
	words = append(words, wordsAt(1.0, "epsilon", "zeta", "eta", "theta")...)
	tr := &transcript.Transcript{Duration: 10.0, Words: words}
	rules := []mapping.Rule{
		{Image: "01.png", Text: "alpha beta gamma delta"},
		{Image: "02.png", Text: "epsilon zeta eta theta"},
	}
	r := NewResolver(DefaultOptions(), nil)
	_, err := r.Resolve(rules, tr)
	var ordering *OrderingError
	if !errors.As(err, &ordering) {
		t.Fatalf("error type = %T (%v), want *OrderingError", err, err)
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := NewResolver(DefaultOptions(), nil)
	first, err := r.Resolve(narrationRules(), narrationTranscript())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := r.Resolve(narrationRules(), narrationTranscript())
	if err != nil {
		t.Fatalf("Resolve (repeat): %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Start != second[i].Start ||
			first[i].Match != second[i].Match ||
			first[i].Similarity != second[i].Similarity {
			t.Errorf("phrase %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestResolveWithoutSegmentsFallsBackToFullScan(t *testing.T) {
	tr := narrationTranscript()
	tr.Segments = nil
	r := NewResolver(DefaultOptions(), nil)
	resolved, err := r.Resolve(narrationRules(), tr)
	if err != nil {
		t.Fatalf("Resolve without segments: %v", err)
	}
	if resolved[0].Start != 0.0 || resolved[1].Start != 6.0 {
		t.Errorf("starts = %v, %v; want 0.0, 6.0", resolved[0].Start, resolved[1].Start)
	}
}

func TestResolveAccentedNarration(t *testing.T) {
	tr := &transcript.Transcript{
		Duration: 1.5,
		Words:    wordsAt(0.0, "café", "crème", "brûlée"),
	}
	rules := []mapping.Rule{{Image: "01.png", Text: "cafe creme brulee"}}

	// Accented letters strip to fragments ("caf cr me br l e") that cannot
	// clear the threshold against the ASCII phrase.
	var unresolved *UnresolvedPhraseError
	if _, err := NewResolver(Options{Threshold: 85}, nil).Resolve(rules, tr); !errors.As(err, &unresolved) {
		t.Fatalf("Resolve without folding: err = %v, want UnresolvedPhraseError", err)
	}

	resolved, err := NewResolver(Options{Threshold: 85, FoldAccents: true}, nil).Resolve(rules, tr)
	if err != nil {
		t.Fatalf("Resolve with folding: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("got %d resolved phrases, want 1", len(resolved))
	}
	if resolved[0].Start != 0.0 || resolved[0].Similarity.TokenSet != 100 {
		t.Errorf("resolved = %+v, want start 0.0 with token-set 100", resolved[0])
	}
}
