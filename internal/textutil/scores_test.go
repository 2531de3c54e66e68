package textutil

import "testing"

func TestTokenSetScoreIdentical(t *testing.T) {
	if got := TokenSetScore("hello world", "hello world"); got != 100 {
		t.Errorf("TokenSetScore(identical) = %d, want 100", got)
	}
}

func TestTokenSetScoreReordered(t *testing.T) {
	if got := TokenSetScore("hello big world", "world big hello"); got != 100 {
		t.Errorf("TokenSetScore(reordered) = %d, want 100", got)
	}
}

func TestTokenSetScoreEmpty(t *testing.T) {
	if got := TokenSetScore("", "hello"); got != 0 {
		t.Errorf("TokenSetScore(empty, x) = %d, want 0", got)
	}
	if got := TokenSetScore("hello", ""); got != 0 {
		t.Errorf("TokenSetScore(x, empty) = %d, want 0", got)
	}
}

func TestEditScoreIdentical(t *testing.T) {
	if got := EditScore("goodbye now", "goodbye now"); got != 100 {
		t.Errorf("EditScore(identical) = %d, want 100", got)
	}
}

func TestEditScoreRange(t *testing.T) {
	pairs := [][2]string{
		{"hello world", "hallo world"},
		{"completely different", "nothing in common"},
		{"a", "b"},
	}
	for _, p := range pairs {
		got := EditScore(p[0], p[1])
		if got < 0 || got > 100 {
			t.Errorf("EditScore(%q, %q) = %d, out of [0,100]", p[0], p[1], got)
		}
	}
}

func TestScoresDeterministic(t *testing.T) {
	a, b := "the quick brown fox", "a quick brown dog"
	ts1, ts2 := TokenSetScore(a, b), TokenSetScore(a, b)
	if ts1 != ts2 {
		t.Errorf("TokenSetScore not deterministic: %d vs %d", ts1, ts2)
	}
	e1, e2 := EditScore(a, b), EditScore(a, b)
	if e1 != e2 {
		t.Errorf("EditScore not deterministic: %d vs %d", e1, e2)
	}
}
