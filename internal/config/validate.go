package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateTranscriber(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if m.SimilarityThreshold < 0 || m.SimilarityThreshold > 100 {
		return errors.New("matching.similarity_threshold must be between 0 and 100")
	}
	if m.CoarseFloor < 0 || m.CoarseFloor > 100 {
		return errors.New("matching.coarse_floor must be between 0 and 100")
	}
	if m.CoarseMargin < 0 || m.CoarseMargin > 100 {
		return errors.New("matching.coarse_margin must be between 0 and 100")
	}
	if m.SearchPad < 0 {
		return errors.New("matching.search_pad must not be negative")
	}
	return nil
}

func (c *Config) validateTranscriber() error {
	switch c.Transcriber.Backend {
	case "faster-whisper":
	case "openai":
		if c.Transcriber.OpenAIAPIKey == "" {
			return errors.New("transcriber.openai_api_key is required for the openai backend. Set OPENAI_API_KEY or edit the config (create with 'scenesync config init')")
		}
	default:
		return fmt.Errorf("transcriber.backend %q is not supported (faster-whisper, openai)", c.Transcriber.Backend)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.FPS <= 0 {
		return errors.New("video.fps must be positive")
	}
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return errors.New("video.width and video.height must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (console, json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported (debug, info, warn, error)", c.Logging.Level)
	}
	return nil
}
