package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Hello World", "hello world"},
		{"punctuation", "Hello, world! It's me...", "hello world it s me"},
		{"whitespace collapse", "  a \t b\n\nc  ", "a b c"},
		{"digits kept", "Track 51, take 2", "track 51 take 2"},
		{"accented letters stripped", "Café déjà vu", "caf d j vu"},
		{"empty", "", ""},
		{"only punctuation", "?!...---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFoldAccents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"marks dropped", "Café déjà vu", "Cafe deja vu"},
		{"mixed marks", "crème brûlée", "creme brulee"},
		{"no accents untouched", "plain text 42", "plain text 42"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FoldAccents(tt.in); got != tt.want {
				t.Errorf("FoldAccents(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeAfterFoldKeepsTokens(t *testing.T) {
	if got := Normalize(FoldAccents("Café déjà vu")); got != "cafe deja vu" {
		t.Errorf("Normalize(FoldAccents(...)) = %q, want %q", got, "cafe deja vu")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"  mixed CASE with   spaces ",
		"already normalized text",
		"",
		"punctuation?! everywhere... (yes)",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
