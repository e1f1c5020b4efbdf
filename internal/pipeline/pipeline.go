package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/slideshow/internal/clips"
	"github.com/kikiluvv/slideshow/internal/config"
	"github.com/kikiluvv/slideshow/internal/ffmpeg"
	"github.com/kikiluvv/slideshow/internal/slideshow"
	"github.com/kikiluvv/slideshow/pkg/util"
)

// Prober reads media metadata
type Prober interface {
	ProbeMedia(ctx context.Context, path string) (*ffmpeg.MediaInfo, error)
}

// Pipeline assembles slideshows from an image directory and an audio track
type Pipeline struct {
	logger zerolog.Logger
	config Config
	ffmpeg *ffmpeg.Executor
}

// New creates a new pipeline instance
func New(logger zerolog.Logger, appCfg *config.Config) (*Pipeline, error) {
	ffmpegExec, err := ffmpeg.New(logger, ffmpeg.Options{
		BinaryPath: appCfg.FFmpeg.BinaryPath,
		ProbePath:  appCfg.FFmpeg.ProbePath,
		Threads:    appCfg.FFmpeg.Threads,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}

	return &Pipeline{
		logger: logger.With().Str("component", "pipeline").Logger(),
		config: ConfigFrom(appCfg),
		ffmpeg: ffmpegExec,
	}, nil
}

// ConfigFrom extracts the rendering parameters from the application config
func ConfigFrom(appCfg *config.Config) Config {
	s := appCfg.Slideshow
	return Config{
		FPS:        s.FPS,
		FadeIn:     s.FadeIn,
		Width:      s.Width,
		Height:     s.Height,
		Extensions: s.Extensions,
		Encode: ffmpeg.EncodeOptions{
			VideoCodec: appCfg.FFmpeg.VideoCodec,
			AudioCodec: appCfg.FFmpeg.AudioCodec,
			CRF:        appCfg.FFmpeg.CRF,
			Preset:     appCfg.FFmpeg.Preset,
			FPS:        s.FPS,
		},
	}
}

// Prober exposes the pipeline's media prober
func (p *Pipeline) Prober() Prober {
	return p.ffmpeg
}

// Create builds the slideshow described by req and encodes it to req.Output.
// An image directory without images yields slideshow.ErrNoImages and
// nothing is written.
func (p *Pipeline) Create(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	id := uuid.NewString()
	logger := p.logger.With().Str("run", id).Logger()

	plan, err := p.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("images", len(plan.Images)).
		Int("repeats", plan.Timeline.Repeats).
		Int("clips", len(plan.Timeline.Clips)).
		Dur("audio", plan.AudioDuration).
		Dur("duration", plan.Duration).
		Str("output", req.Output).
		Msg("slideshow planned")

	pass := plan.Timeline.Pass()
	logger.Debug().
		Int("pass_clips", len(pass)).
		Int("passes", plan.Timeline.Passes()).
		Msg("rendering one pass")

	if err := util.EnsureDir(filepath.Dir(req.Output)); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	work, err := os.MkdirTemp("", "slideshow-"+id+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(work)

	passFile := filepath.Join(work, "pass.mp4")
	passGraph, err := buildPassGraph(pass, passFile, p.config)
	if err != nil {
		return nil, fmt.Errorf("failed to build filter graph: %w", err)
	}

	err = p.ffmpeg.RenderGraph(ctx, passGraph, ffmpeg.RenderOptions{
		Output:       passFile,
		Total:        plan.Timeline.PassDuration(),
		ProgressFunc: stageProgress(req.ProgressFunc, 0, passShare),
	})
	if err != nil {
		return nil, err
	}

	passList := filepath.Join(work, "passes.txt")
	if err := ffmpeg.WriteConcatList(passList, repeatPath(passFile, plan.Timeline.Passes())); err != nil {
		return nil, err
	}

	finalGraph, err := buildFinalGraph(passList, req.AudioFile, req.Output, plan.Duration, p.config)
	if err != nil {
		return nil, fmt.Errorf("failed to build output graph: %w", err)
	}

	err = p.ffmpeg.RenderGraph(ctx, finalGraph, ffmpeg.RenderOptions{
		Output:       req.Output,
		Total:        plan.Duration,
		ProgressFunc: stageProgress(req.ProgressFunc, passShare, 100),
	})
	if err != nil {
		return nil, err
	}

	plan.ID = id
	plan.Output = req.Output
	plan.Elapsed = time.Since(started)

	logger.Info().
		Str("output", plan.Output).
		Dur("elapsed", plan.Elapsed).
		Msg("slideshow created")

	return plan, nil
}

// passShare is the part of the progress bar given to the pass render; the
// final step only copies video.
const passShare = 90

// stageProgress maps a step's 0-100 progress onto [from, to].
func stageProgress(fn ffmpeg.ProgressFunc, from, to float64) ffmpeg.ProgressFunc {
	if fn == nil {
		return nil
	}
	return func(p *ffmpeg.Progress) {
		scaled := *p
		scaled.Percentage = from + p.Percentage*(to-from)/100
		scaled.Done = p.Done && to >= 100
		fn(&scaled)
	}
}

func repeatPath(path string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = path
	}
	return out
}

// Plan runs every step of Create up to, but not including, the encode:
// image listing, clip timeline and audio/video length reconciliation.
func (p *Pipeline) Plan(ctx context.Context, req Request) (*Result, error) {
	return plan(ctx, p.ffmpeg, p.config, req)
}

func plan(ctx context.Context, prober Prober, cfg Config, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	images, err := slideshow.ListImages(req.ImageDir, cfg.Extensions)
	if err != nil {
		return nil, err
	}

	seq, err := clips.NewSequence(images, req.ImageDuration, cfg.FPS, cfg.FadeIn)
	if err != nil {
		return nil, err
	}
	timeline := seq.Fill(req.EndTime)

	info, err := prober.ProbeMedia(ctx, req.AudioFile)
	if err != nil {
		return nil, fmt.Errorf("failed to probe audio: %w", err)
	}
	if !info.HasAudio || info.Duration <= 0 {
		return nil, fmt.Errorf("%s has no usable audio stream", req.AudioFile)
	}

	return &Result{
		Images:        images,
		Timeline:      timeline,
		AudioDuration: info.Duration,
		Duration:      min(info.Duration, req.EndTime),
	}, nil
}

// validateRequest validates the collected parameters
func validateRequest(req Request) error {
	if req.ImageDir == "" {
		return fmt.Errorf("image directory is required")
	}
	if req.AudioFile == "" {
		return fmt.Errorf("audio file is required")
	}
	if req.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if req.ImageDuration <= 0 {
		return fmt.Errorf("duration per image must be positive")
	}
	if req.EndTime <= 0 {
		return fmt.Errorf("end time must be positive")
	}
	return nil
}
