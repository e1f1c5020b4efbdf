package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// EncodeOptions configures the output encoder
type EncodeOptions struct {
	VideoCodec string
	AudioCodec string
	CRF        int
	Preset     string
	FPS        int
	PixFmt     string
}

// RenderOptions configures rendering of a filter graph
type RenderOptions struct {
	Output string
	// Total is the expected output length, used for progress percentages.
	Total        time.Duration
	ProgressFunc ProgressFunc
}

// OutputArgs returns the encoder settings as output keyword arguments,
// filling unset fields with the package defaults.
func (o EncodeOptions) OutputArgs() (ffmpeggo.KwArgs, error) {
	if err := validateEncodeOptions(o); err != nil {
		return nil, fmt.Errorf("invalid encode options: %w", err)
	}

	videoCodec := o.VideoCodec
	if videoCodec == "" {
		videoCodec = DefaultVideoCodec
	}
	audioCodec := o.AudioCodec
	if audioCodec == "" {
		audioCodec = DefaultAudioCodec
	}
	crf := o.CRF
	if crf == 0 {
		crf = DefaultCRF
	}
	preset := o.Preset
	if preset == "" {
		preset = DefaultPreset
	}
	pixFmt := o.PixFmt
	if pixFmt == "" {
		pixFmt = DefaultPixFmt
	}

	args := ffmpeggo.KwArgs{
		"c:v":      videoCodec,
		"c:a":      audioCodec,
		"crf":      strconv.Itoa(crf),
		"preset":   preset,
		"pix_fmt":  pixFmt,
		"movflags": "+faststart",
	}
	if o.FPS > 0 {
		args["r"] = strconv.Itoa(o.FPS)
	}
	return args, nil
}

// RenderGraph runs an ffmpeg-go output graph through the executor so the
// render gets the same progress streaming and logging as every other call.
func (e *Executor) RenderGraph(ctx context.Context, graph *ffmpeggo.Stream, opts RenderOptions) error {
	if graph == nil {
		return fmt.Errorf("render graph is required")
	}
	if opts.Output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Info().
		Str("output", opts.Output).
		Dur("duration", opts.Total).
		Msg("starting render")

	args, cleanup, err := scriptFilterGraph(graph.GetArgs())
	if err != nil {
		return fmt.Errorf("failed to write filter script: %w", err)
	}
	defer cleanup()

	runOpts := RunOptions{
		Args:            args,
		Total:           opts.Total,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("render output")
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	e.logger.Info().Str("output", opts.Output).Msg("render completed")
	return nil
}

// maxInlineFilter is the longest filter graph passed on the command line.
// Linux caps a single exec argument at 128 KiB.
const maxInlineFilter = 32 << 10

// scriptFilterGraph moves an oversized -filter_complex value into a
// temporary file read through -filter_complex_script.
func scriptFilterGraph(args []string) ([]string, func(), error) {
	noop := func() {}
	for i := 0; i < len(args)-1; i++ {
		if args[i] != "-filter_complex" || len(args[i+1]) <= maxInlineFilter {
			continue
		}

		f, err := os.CreateTemp("", "slideshow-filter-*.txt")
		if err != nil {
			return nil, noop, err
		}
		if _, err := f.WriteString(args[i+1]); err != nil {
			f.Close()
			os.Remove(f.Name())
			return nil, noop, err
		}
		if err := f.Close(); err != nil {
			os.Remove(f.Name())
			return nil, noop, err
		}

		out := append([]string(nil), args...)
		out[i] = "-filter_complex_script"
		out[i+1] = f.Name()
		return out, func() { os.Remove(f.Name()) }, nil
	}
	return args, noop, nil
}

// validateEncodeOptions validates the encoder settings
func validateEncodeOptions(o EncodeOptions) error {
	if o.CRF < 0 || o.CRF > 51 {
		return fmt.Errorf("CRF must be between 0 and 51")
	}
	if o.FPS < 0 {
		return fmt.Errorf("FPS cannot be negative")
	}
	return nil
}
