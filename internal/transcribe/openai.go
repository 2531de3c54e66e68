package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scenesync/internal/services"
	"scenesync/internal/transcript"
)

const openAITranscriptionsURL = "https://api.openai.com/v1/audio/transcriptions"

type openAIBackend struct {
	apiKey   string
	model    string
	language string
	timeout  time.Duration
	baseURL  string
}

type openAIVerboseResponse struct {
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Words    []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
	Segments []struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (o *openAIBackend) Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := map[string]string{
		"model":           o.model,
		"response_format": "verbose_json",
	}
	if o.language != "" {
		fields["language"] = o.language
	}
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", key, err)
		}
	}
	for _, granularity := range []string{"word", "segment"} {
		if err := mw.WriteField("timestamp_granularities[]", granularity); err != nil {
			return nil, fmt.Errorf("write granularity field: %w", err)
		}
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, fmt.Errorf("copy audio into form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	url := o.baseURL
	if url == "" {
		url = openAITranscriptionsURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	timeout := o.timeout
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "openai", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "openai",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}

	var parsed openAIVerboseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse openai response: %w", err)
	}
	return verboseToTranscript(&parsed)
}

// verboseToTranscript converts the API response to the transcript schema.
// The API reports words and segments as parallel streams, so segment word
// ranges are recovered by walking the word list against segment end times.
func verboseToTranscript(parsed *openAIVerboseResponse) (*transcript.Transcript, error) {
	tr := &transcript.Transcript{
		Language: parsed.Language,
		Duration: parsed.Duration,
	}
	for _, w := range parsed.Words {
		token := strings.TrimSpace(w.Word)
		if token == "" {
			continue
		}
		tr.Words = append(tr.Words, transcript.Word{Text: token, Start: w.Start, End: w.End})
	}

	cursor := 0
	for i, seg := range parsed.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		wordStart := cursor
		for cursor < len(tr.Words) && tr.Words[cursor].Start < seg.End {
			cursor++
		}
		// Last segment absorbs any trailing words the cutoff missed.
		if i == len(parsed.Segments)-1 {
			cursor = len(tr.Words)
		}
		tr.Segments = append(tr.Segments, transcript.Segment{
			ID:        len(tr.Segments),
			Start:     seg.Start,
			End:       seg.End,
			Text:      text,
			WordStart: wordStart,
			WordEnd:   cursor,
		})
	}

	if err := tr.Validate(); err != nil {
		return nil, fmt.Errorf("openai transcript invalid: %w", err)
	}
	return tr, nil
}
