package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"scenesync/internal/align"
	"scenesync/internal/config"
	"scenesync/internal/mapping"
	"scenesync/internal/render"
	"scenesync/internal/runstore"
	"scenesync/internal/services"
	"scenesync/internal/timeline"
	"scenesync/internal/transcript"
)

// Transcriber produces a timestamped transcript for an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error)
}

// Renderer turns a timeline plus images into a video file.
type Renderer interface {
	Render(ctx context.Context, tl *timeline.Timeline, imagesDir, outPath string, opts render.Options) error
}

// Prober reads the audio duration in seconds.
type Prober func(ctx context.Context, audioPath string) (float64, error)

// Pipeline wires the stages together.
type Pipeline struct {
	cfg         *config.Config
	logger      *slog.Logger
	store       *runstore.Store
	transcriber Transcriber
	renderer    Renderer
	prober      Prober
}

// New constructs a pipeline. The store may be nil, in which case run history
// is not persisted. A nil prober falls back to the transcript's own duration.
func New(cfg *config.Config, logger *slog.Logger, store *runstore.Store, transcriber Transcriber, renderer Renderer, prober Prober) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		transcriber: transcriber,
		renderer:    renderer,
		prober:      prober,
	}
}

// Request identifies the inputs and output directory for a run.
type Request struct {
	AudioPath   string
	ImagesDir   string
	MappingPath string
	OutDir      string
}

// Result reports what a run produced.
type Result struct {
	RunID               string
	TranscriptPath      string
	ResolvedPath        string
	TimelinePath        string
	VideoPath           string
	Timeline            *timeline.Timeline
	UsedSegmentFallback bool
}

// Run executes the full pipeline for one audio/mapping pair.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output directory: %w", err)
	}

	lock := flock.New(filepath.Join(req.OutDir, ".scenesync.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrValidation, "run", "",
			fmt.Sprintf("another run is active in %s", req.OutDir), nil)
	}
	defer func() { _ = lock.Unlock() }()

	m, err := mapping.Load(req.MappingPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "load mapping", "", err)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := p.logger.With("run_id", runID)
	logger.Info("run started", "audio", req.AudioPath, "rules", len(m.Rules))

	p.recordRunStart(ctx, runID, req, m)

	result, err := p.execute(ctx, logger, runID, req, m)
	if err != nil {
		p.recordStatus(ctx, runID, runstore.StatusFailed, err.Error())
		return nil, err
	}
	p.recordStatus(ctx, runID, runstore.StatusCompleted, "")
	logger.Info("run complete", "video", result.VideoPath)
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context, logger *slog.Logger, runID string, req Request, m *mapping.Mapping) (*Result, error) {
	result := &Result{RunID: runID}

	// Transcribe.
	tr, err := p.transcriber.Transcribe(services.WithStage(ctx, "transcribe"), req.AudioPath)
	if err != nil {
		return nil, err
	}
	result.TranscriptPath = filepath.Join(req.OutDir, "transcript.json")
	if err := tr.Save(result.TranscriptPath); err != nil {
		return nil, err
	}
	p.recordArtifact(ctx, runID, runstore.ArtifactTranscript, result.TranscriptPath)
	logger.Info("transcription complete", "words", len(tr.Words), "segments", len(tr.Segments))

	// Audio duration drives the timeline end.
	duration := tr.Duration
	if p.prober != nil {
		duration, err = p.prober(services.WithStage(ctx, "probe"), req.AudioPath)
		if err != nil {
			return nil, err
		}
	}
	if duration <= 0 {
		return nil, services.Wrap(services.ErrValidation, "run", "", "audio duration is not positive", nil)
	}
	p.recordDuration(ctx, runID, duration)
	audio := timeline.AudioInfo{Path: req.AudioPath, Duration: duration}

	// Align and build the timeline.
	tl, resolved, usedFallback, err := p.buildTimeline(ctx, logger, m, tr, audio)
	if err != nil {
		return nil, err
	}
	result.UsedSegmentFallback = usedFallback
	if resolved != nil {
		result.ResolvedPath = filepath.Join(req.OutDir, "resolved.json")
		if err := align.SaveResolved(result.ResolvedPath, resolved); err != nil {
			return nil, err
		}
		p.recordArtifact(ctx, runID, runstore.ArtifactResolved, result.ResolvedPath)
	}
	if err := tl.Validate(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "timeline", "", "", err)
	}
	result.TimelinePath = filepath.Join(req.OutDir, "timeline.json")
	if err := tl.Save(result.TimelinePath); err != nil {
		return nil, err
	}
	p.recordArtifact(ctx, runID, runstore.ArtifactTimeline, result.TimelinePath)
	result.Timeline = tl
	logger.Info("timeline built", "items", len(tl.Items), "duration", duration)

	// Render.
	result.VideoPath = filepath.Join(req.OutDir, "output.mp4")
	opts := render.Options{Width: p.cfg.Video.Width, Height: p.cfg.Video.Height, FPS: p.cfg.Video.FPS}
	if err := p.renderer.Render(services.WithStage(ctx, "render"), tl, req.ImagesDir, result.VideoPath, opts); err != nil {
		return nil, err
	}
	p.recordArtifact(ctx, runID, runstore.ArtifactVideo, result.VideoPath)

	return result, nil
}

// buildTimeline resolves phrases against the transcript and assembles the
// timeline. When phrase resolution fails and segment fallback is enabled,
// segment-level matching is used instead.
func (p *Pipeline) buildTimeline(ctx context.Context, logger *slog.Logger, m *mapping.Mapping, tr *transcript.Transcript, audio timeline.AudioInfo) (*timeline.Timeline, []align.ResolvedPhrase, bool, error) {
	opts := align.Options{
		Threshold:    m.Matching.SimilarityThreshold,
		CoarseFloor:  p.cfg.Matching.CoarseFloor,
		CoarseMargin: p.cfg.Matching.CoarseMargin,
		SearchPad:    p.cfg.Matching.SearchPad,
		FoldAccents:  p.cfg.Matching.FoldAccents,
	}
	resolver := align.NewResolver(opts, logger)

	resolved, err := resolver.Resolve(m.Rules, tr)
	if err == nil {
		return timeline.BuildFromPhrases(resolved, audio, p.cfg.Video.FPS, logger), resolved, false, nil
	}

	var unresolved *align.UnresolvedPhraseError
	fallbackable := errors.As(err, &unresolved) || errors.Is(err, align.ErrNoWordTimestamps)
	if !fallbackable || !p.cfg.Matching.AllowSegmentFallback {
		if errors.As(err, &unresolved) {
			return nil, nil, false, services.Wrap(services.ErrUnresolved, "align", "", "", err)
		}
		return nil, nil, false, services.Wrap(services.ErrValidation, "align", "", "", err)
	}

	logger.Warn("phrase alignment failed, falling back to segment matching", "reason", err.Error())
	refined := transcript.RefineSegments(tr.Segments)
	matches := align.MatchSegments(refined, m.Rules, m.Matching.SimilarityThreshold, p.cfg.Matching.FoldAccents)
	if len(matches) == 0 {
		return nil, nil, false, services.Wrap(services.ErrUnresolved, "align", "segment fallback",
			"no segment matched any rule", err)
	}
	return timeline.BuildFromSegmentMatches(matches, audio, p.cfg.Video.FPS, logger), nil, true, nil
}

// Transcribe runs just the transcription stage and writes the artifact.
func (p *Pipeline) Transcribe(ctx context.Context, audioPath, outPath string) (*transcript.Transcript, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "transcribe", "",
			fmt.Sprintf("audio file not found: %s", audioPath), nil)
	}
	tr, err := p.transcriber.Transcribe(services.WithStage(ctx, "transcribe"), audioPath)
	if err != nil {
		return nil, err
	}
	if outPath != "" {
		if err := tr.Save(outPath); err != nil {
			return nil, err
		}
	}
	return tr, nil
}

func validateRequest(req Request) error {
	if _, err := os.Stat(req.AudioPath); err != nil {
		return services.Wrap(services.ErrNotFound, "run", "",
			fmt.Sprintf("audio file not found: %s", req.AudioPath), nil)
	}
	info, err := os.Stat(req.ImagesDir)
	if err != nil || !info.IsDir() {
		return services.Wrap(services.ErrNotFound, "run", "",
			fmt.Sprintf("images folder not found or not a directory: %s", req.ImagesDir), nil)
	}
	if _, err := os.Stat(req.MappingPath); err != nil {
		return services.Wrap(services.ErrNotFound, "run", "",
			fmt.Sprintf("mapping file not found: %s", req.MappingPath), nil)
	}
	if req.OutDir == "" {
		return services.Wrap(services.ErrValidation, "run", "", "output directory is empty", nil)
	}
	return nil
}

func (p *Pipeline) recordRunStart(ctx context.Context, runID string, req Request, m *mapping.Mapping) {
	if p.store == nil {
		return
	}
	run := &runstore.Run{
		ID:          runID,
		AudioPath:   req.AudioPath,
		MappingPath: req.MappingPath,
		FPS:         p.cfg.Video.FPS,
		Threshold:   m.Matching.SimilarityThreshold,
	}
	if err := p.store.CreateRun(ctx, run); err != nil {
		p.logger.Warn("record run start failed", "error", err)
	}
}

func (p *Pipeline) recordStatus(ctx context.Context, runID string, status runstore.Status, message string) {
	if p.store == nil {
		return
	}
	if err := p.store.UpdateStatus(ctx, runID, status, message); err != nil {
		p.logger.Warn("record run status failed", "error", err)
	}
}

func (p *Pipeline) recordDuration(ctx context.Context, runID string, duration float64) {
	if p.store == nil {
		return
	}
	if err := p.store.UpdateDuration(ctx, runID, duration); err != nil {
		p.logger.Warn("record run duration failed", "error", err)
	}
}

func (p *Pipeline) recordArtifact(ctx context.Context, runID, kind, path string) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveArtifact(ctx, runID, kind, path); err != nil {
		p.logger.Warn("record artifact failed", "kind", kind, "error", err)
	}
}
