package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("exists = true for a missing file")
	}
	if cfg.Matching.SimilarityThreshold != defaultSimilarityThreshold {
		t.Errorf("threshold = %d, want default %d", cfg.Matching.SimilarityThreshold, defaultSimilarityThreshold)
	}
	if cfg.Video.FPS != defaultFPS {
		t.Errorf("fps = %d, want default %d", cfg.Video.FPS, defaultFPS)
	}
	if cfg.Transcriber.Backend != defaultBackend {
		t.Errorf("backend = %q, want %q", cfg.Transcriber.Backend, defaultBackend)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
work_dir = "` + dir + `/work"

[matching]
similarity_threshold = 70
search_pad = 10

[video]
fps = 25
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved == "" {
		t.Errorf("exists=%v resolved=%q", exists, resolved)
	}
	if cfg.Matching.SimilarityThreshold != 70 || cfg.Matching.SearchPad != 10 {
		t.Errorf("matching = %+v", cfg.Matching)
	}
	if cfg.Matching.CoarseFloor != defaultCoarseFloor {
		t.Errorf("coarse_floor = %d, want default kept", cfg.Matching.CoarseFloor)
	}
	if cfg.Video.FPS != 25 {
		t.Errorf("fps = %d, want 25", cfg.Video.FPS)
	}
	if !filepath.IsAbs(cfg.Paths.WorkDir) {
		t.Errorf("work_dir not absolute: %q", cfg.Paths.WorkDir)
	}
	if cfg.DatabasePath() != filepath.Join(cfg.Paths.WorkDir, "scenesync.db") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad threshold", "[matching]\nsimilarity_threshold = 101\n"},
		{"bad fps", "[video]\nfps = 0\n"},
		{"bad backend", "[transcriber]\nbackend = \"siri\"\n"},
		{"bad level", "[logging]\nlevel = \"chatty\"\n"},
		{"bad format", "[logging]\nformat = \"xml\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, _, _, err := Load(path); err == nil {
				t.Errorf("Load accepted %s", tt.name)
			}
		})
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := expandPath("~/x")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "x") {
		t.Errorf("expandPath(~/x) = %q", got)
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(SampleConfig()), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	def := Default()
	if cfg.Matching.SimilarityThreshold != def.Matching.SimilarityThreshold ||
		cfg.Video.FPS != def.Video.FPS ||
		cfg.Logging.Level != def.Logging.Level {
		t.Error("sample config values drifted from Default()")
	}
	if !strings.Contains(SampleConfig(), "similarity_threshold") {
		t.Error("sample config missing matching section")
	}
}
