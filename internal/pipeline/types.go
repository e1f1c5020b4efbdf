package pipeline

import (
	"time"

	"github.com/kikiluvv/slideshow/internal/clips"
	"github.com/kikiluvv/slideshow/internal/ffmpeg"
)

// Request is one slideshow to build, as collected by the form or the CLI.
type Request struct {
	ImageDir      string
	AudioFile     string
	Output        string
	ImageDuration time.Duration
	EndTime       time.Duration
	ProgressFunc  ffmpeg.ProgressFunc
}

// Result describes a finished render
type Result struct {
	ID            string
	Output        string
	Images        []string
	Timeline      *clips.Timeline
	AudioDuration time.Duration
	Duration      time.Duration
	Elapsed       time.Duration
}

// Config holds the fixed rendering parameters
type Config struct {
	FPS        int
	FadeIn     time.Duration
	Width      int
	Height     int
	Extensions []string
	Encode     ffmpeg.EncodeOptions
}
