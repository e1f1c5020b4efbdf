package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// UI language of the form, "es" or "en"
	Language string `yaml:"language"`

	Slideshow SlideshowConfig `yaml:"slideshow"`
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
}

// SlideshowConfig holds the form defaults and the fixed rendering parameters.
type SlideshowConfig struct {
	ImageDir      string        `yaml:"image_dir"`
	AudioFile     string        `yaml:"audio_file"`
	OutputDir     string        `yaml:"output_dir"`
	ImageDuration time.Duration `yaml:"image_duration"`
	EndTime       time.Duration `yaml:"end_time"`
	FPS           int           `yaml:"fps"`
	FadeIn        time.Duration `yaml:"fade_in"`
	Width         int           `yaml:"width"`
	Height        int           `yaml:"height"`
	Extensions    []string      `yaml:"extensions"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ProbePath  string `yaml:"probe_path"`
	Threads    int    `yaml:"threads"`
	Preset     string `yaml:"preset"`
	CRF        int    `yaml:"crf"`
	VideoCodec string `yaml:"video_codec"`
	AudioCodec string `yaml:"audio_codec"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the renderer cannot work with.
func (c *Config) Validate() error {
	if c.Language != "es" && c.Language != "en" {
		return fmt.Errorf("language must be es or en, got %q", c.Language)
	}
	s := c.Slideshow
	if s.ImageDuration <= 0 {
		return fmt.Errorf("slideshow.image_duration must be positive")
	}
	if s.EndTime <= 0 {
		return fmt.Errorf("slideshow.end_time must be positive")
	}
	if s.FPS <= 0 {
		return fmt.Errorf("slideshow.fps must be positive")
	}
	if s.FadeIn < 0 {
		return fmt.Errorf("slideshow.fade_in cannot be negative")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("slideshow canvas must be positive, got %dx%d", s.Width, s.Height)
	}
	if len(s.Extensions) == 0 {
		return fmt.Errorf("slideshow.extensions cannot be empty")
	}
	if c.FFmpeg.CRF < 0 || c.FFmpeg.CRF > 51 {
		return fmt.Errorf("ffmpeg.crf must be between 0 and 51")
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Language: "es",
		Slideshow: SlideshowConfig{
			ImageDir:      "./img",
			AudioFile:     filepath.Join(".", "audio", "audio.mp3"),
			OutputDir:     "./output",
			ImageDuration: 5 * time.Second,
			EndTime:       60 * time.Second,
			FPS:           24,
			FadeIn:        time.Second,
			Width:         1920,
			Height:        1080,
			Extensions:    []string{".png", ".jpg", ".jpeg"},
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			ProbePath:  "ffprobe",
			Threads:    0,
			Preset:     "medium",
			CRF:        23,
			VideoCodec: "libx264",
			AudioCodec: "aac",
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".slideshow", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}
