package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// WorkDir holds run state: the run database and default output roots.
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
}

// Matching tunes phrase alignment. CoarseFloor, CoarseMargin, and SearchPad
// are the coarse-localization heuristics; their defaults reproduce the
// long-standing behavior (floor 40, margin 15, pad 20 words) and should not
// be changed without transcripts demonstrating a mismatch.
type Matching struct {
	SimilarityThreshold  int  `toml:"similarity_threshold"`
	CoarseFloor          int  `toml:"coarse_floor"`
	CoarseMargin         int  `toml:"coarse_margin"`
	SearchPad            int  `toml:"search_pad"`
	FoldAccents          bool `toml:"fold_accents"`
	AllowSegmentFallback bool `toml:"allow_segment_fallback"`
}

// Transcriber selects and tunes the speech-to-text backend.
type Transcriber struct {
	// Backend is "faster-whisper" (local helper) or "openai" (hosted API).
	Backend     string `toml:"backend"`
	Model       string `toml:"model"`
	Device      string `toml:"device"`
	ComputeType string `toml:"compute_type"`
	// Language forces a language code (e.g. "en"); empty auto-detects.
	Language       string `toml:"language"`
	OpenAIAPIKey   string `toml:"openai_api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Video contains output geometry and frame rate.
type Video struct {
	FPS    int `toml:"fps"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for scenesync.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Matching    Matching    `toml:"matching"`
	Transcriber Transcriber `toml:"transcriber"`
	Video       Video       `toml:"video"`
	Logging     Logging     `toml:"logging"`
}

// DatabasePath returns the location of the run database under the work dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.WorkDir, "scenesync.db")
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scenesync/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// EnsureDirectories creates the configured work and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Load locates, parses, normalizes, and validates a configuration file. A
// missing file is not an error; defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("scenesync.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
