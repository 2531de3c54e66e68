package transcribe

import (
	"context"
	"fmt"
	"time"

	"scenesync/internal/config"
	"scenesync/internal/transcript"
)

// Backend is a pluggable transcription backend.
type Backend interface {
	Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error)
}

// New constructs the backend selected by configuration.
func New(cfg *config.Config) (Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("transcriber config is nil")
	}
	timeout := time.Duration(cfg.Transcriber.TimeoutSeconds) * time.Second
	switch cfg.Transcriber.Backend {
	case "faster-whisper":
		return &fasterWhisperBackend{
			model:       cfg.Transcriber.Model,
			device:      cfg.Transcriber.Device,
			computeType: cfg.Transcriber.ComputeType,
			language:    cfg.Transcriber.Language,
			timeout:     timeout,
		}, nil
	case "openai":
		return &openAIBackend{
			apiKey:   cfg.Transcriber.OpenAIAPIKey,
			model:    "whisper-1",
			language: cfg.Transcriber.Language,
			timeout:  timeout,
		}, nil
	default:
		return nil, fmt.Errorf("unknown transcriber backend %q", cfg.Transcriber.Backend)
	}
}
