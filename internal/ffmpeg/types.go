package ffmpeg

import "time"

// MediaInfo contains metadata about a media file
type MediaInfo struct {
	FilePath   string
	Duration   time.Duration
	Width      int
	Height     int
	FPS        float64
	Bitrate    int64
	VideoCodec string
	HasVideo   bool
	HasAudio   bool
	AudioCodec string
	SampleRate int
}

// Progress represents ffmpeg progress data
type Progress struct {
	Frame      int
	FPS        float64
	Bitrate    string
	OutTime    time.Duration
	Speed      string
	Percentage float64
	Done       bool
}

// ProgressFunc is a callback for progress updates during ffmpeg operations.
// Called once per progress block emitted by ffmpeg.
type ProgressFunc func(*Progress)

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args []string
	// Total is the expected output length; when set, Progress.Percentage is filled.
	Total           time.Duration
	ProgressHandler ProgressFunc
	LogHandler      func(line string)
}

// Options configures the executor.
type Options struct {
	BinaryPath string
	ProbePath  string
	Threads    int
}

// Default encoding settings
const (
	DefaultCRF        = 23
	DefaultPreset     = "medium"
	DefaultVideoCodec = "libx264"
	DefaultAudioCodec = "aac"
	DefaultPixFmt     = "yuv420p"
)
