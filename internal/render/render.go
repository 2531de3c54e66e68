package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scenesync/internal/services"
	"scenesync/internal/timeline"
)

// Options controls output geometry and frame rate.
type Options struct {
	Width  int
	Height int
	FPS    int
}

// FFmpeg renders timelines by shelling out to ffmpeg.
type FFmpeg struct {
	logger *slog.Logger
}

// NewFFmpeg returns a renderer. A nil logger discards output.
func NewFFmpeg(logger *slog.Logger) *FFmpeg {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FFmpeg{logger: logger}
}

// Render produces outPath from the timeline, looking up images relative to
// imagesDir. A render manifest with the exact ffmpeg invocation is written
// next to the output for reproducibility.
func (r *FFmpeg) Render(ctx context.Context, tl *timeline.Timeline, imagesDir, outPath string, opts Options) error {
	args, err := buildRenderArgs(tl, imagesDir, outPath, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure output directory: %w", err)
	}

	r.logger.Debug("running ffmpeg", "args", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "render", "ffmpeg",
			strings.TrimSpace(string(out)), err)
	}

	if err := writeManifest(tl, args, outPath); err != nil {
		return err
	}
	r.logger.Info("render complete", "output", outPath, "items", len(tl.Items))
	return nil
}

// buildRenderArgs assembles the full ffmpeg argument list: one looped image
// input per item, a concat filter graph, and the audio as the last input.
func buildRenderArgs(tl *timeline.Timeline, imagesDir, outPath string, opts Options) ([]string, error) {
	if tl == nil || len(tl.Items) == 0 {
		return nil, services.Wrap(services.ErrValidation, "render", "", "timeline has no items", nil)
	}

	args := []string{"-y", "-hide_banner", "-loglevel", "error"}

	type scene struct {
		item     timeline.Item
		duration float64
	}
	var scenes []scene
	for _, item := range tl.Items {
		imagePath := filepath.Join(imagesDir, item.Image)
		if _, err := os.Stat(imagePath); err != nil {
			return nil, services.Wrap(services.ErrNotFound, "render", "",
				fmt.Sprintf("image referenced by timeline not found: %s", imagePath), nil)
		}
		dur := item.Duration()
		if dur <= 0 {
			continue
		}
		scenes = append(scenes, scene{item: item, duration: dur})
		args = append(args,
			"-loop", "1",
			"-framerate", fmt.Sprintf("%d", opts.FPS),
			"-t", fmt.Sprintf("%.6f", dur),
			"-i", imagePath,
		)
	}
	if len(scenes) == 0 {
		return nil, services.Wrap(services.ErrValidation, "render", "", "timeline items have non-positive durations", nil)
	}

	args = append(args, "-i", tl.Audio.Path)

	var perStream []string
	var concatInputs strings.Builder
	for i, sc := range scenes {
		// setpts restarts each clip at t=0 in its own timeline.
		chain := BuildEffectsFilter(sc.item.Effects, opts.Width, opts.Height, opts.FPS, sc.duration)
		perStream = append(perStream, fmt.Sprintf("[%d:v]setpts=PTS-STARTPTS,%s[v%d]", i, chain, i))
		fmt.Fprintf(&concatInputs, "[v%d]", i)
	}
	filterComplex := strings.Join(perStream, ";") +
		fmt.Sprintf(";%sconcat=n=%d:v=1:a=0[vout]", concatInputs.String(), len(scenes))

	args = append(args,
		"-filter_complex", filterComplex,
		"-map", "[vout]",
		"-map", fmt.Sprintf("%d:a:0", len(scenes)),
		"-r", fmt.Sprintf("%d", opts.FPS),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		outPath,
	)
	return args, nil
}

func writeManifest(tl *timeline.Timeline, args []string, outPath string) error {
	type itemDuration struct {
		Start    float64 `json:"start"`
		End      float64 `json:"end"`
		Duration float64 `json:"duration"`
	}
	durations := make([]itemDuration, 0, len(tl.Items))
	for _, item := range tl.Items {
		durations = append(durations, itemDuration{Start: item.Start, End: item.End, Duration: item.Duration()})
	}
	manifest := map[string]any{
		"ffmpeg_args":        args,
		"timeline":           tl,
		"timeline_durations": durations,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode render manifest: %w", err)
	}
	manifestPath := filepath.Join(filepath.Dir(outPath), "render_manifest.json")
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return fmt.Errorf("write render manifest: %w", err)
	}
	return nil
}
