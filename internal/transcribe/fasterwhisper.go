package transcribe

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"scenesync/internal/services"
	"scenesync/internal/transcript"
)

//go:embed assets/faster_whisper.py
var fasterWhisperScript []byte

type fasterWhisperBackend struct {
	model       string
	device      string
	computeType string
	language    string
	timeout     time.Duration
}

func (f *fasterWhisperBackend) Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error) {
	scriptPath := filepath.Join(os.TempDir(), "scenesync_faster_whisper.py")
	if err := os.WriteFile(scriptPath, fasterWhisperScript, 0o755); err != nil {
		return nil, fmt.Errorf("write helper script: %w", err)
	}
	defer os.Remove(scriptPath)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	python := os.Getenv("SCENESYNC_PYTHON")
	if python == "" {
		python = "python3"
	}
	args := []string{
		scriptPath,
		"--audio", audioPath,
		"--model", f.model,
		"--device", f.device,
		"--compute-type", f.computeType,
	}
	if f.language != "" {
		args = append(args, "--language", f.language)
	}

	cmd := exec.CommandContext(ctx, python, args...)
	cmd.Env = os.Environ()
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, services.Wrap(services.ErrExternalTool, "transcribe", "faster-whisper",
				strings.TrimSpace(string(exitErr.Stderr)), nil)
		}
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "faster-whisper", "run helper", err)
	}

	return decodeTranscript(out)
}

func decodeTranscript(data []byte) (*transcript.Transcript, error) {
	var tr transcript.Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("parse helper output: %w", err)
	}
	if err := tr.Validate(); err != nil {
		return nil, fmt.Errorf("helper output invalid: %w", err)
	}
	return &tr, nil
}
