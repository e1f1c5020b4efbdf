package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kikiluvv/slideshow/pkg/util"
)

// ErrNotFound is returned by ProbeMedia when the input file does not exist.
var ErrNotFound = errors.New("media file not found")

// ProbeMedia extracts metadata from an audio or video file
func (e *Executor) ProbeMedia(ctx context.Context, filePath string) (*MediaInfo, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path is required")
	}
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", filePath, ErrNotFound)
		}
		return nil, err
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	}

	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	info, err := parseProbe(filePath, output)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("file", filePath).
		Dur("duration", info.Duration).
		Bool("audio", info.HasAudio).
		Bool("video", info.HasVideo).
		Msg("probed media")

	return info, nil
}

// parseProbe reads the ffprobe JSON document
func parseProbe(filePath string, output []byte) (*MediaInfo, error) {
	if !gjson.ValidBytes(output) {
		return nil, fmt.Errorf("failed to parse ffprobe output for %s", filePath)
	}

	doc := gjson.ParseBytes(output)
	format := doc.Get("format")
	if !format.Exists() {
		return nil, fmt.Errorf("ffprobe reported no format for %s", filePath)
	}

	info := &MediaInfo{
		FilePath: filePath,
		Bitrate:  format.Get("bit_rate").Int(),
	}

	if dur := format.Get("duration"); dur.Exists() {
		info.Duration = secondsToDuration(dur.Float())
	}

	doc.Get("streams").ForEach(func(_, stream gjson.Result) bool {
		switch stream.Get("codec_type").String() {
		case "video":
			info.HasVideo = true
			info.Width = int(stream.Get("width").Int())
			info.Height = int(stream.Get("height").Int())
			info.VideoCodec = stream.Get("codec_name").String()
			if rate := stream.Get("r_frame_rate").String(); rate != "" {
				info.FPS = util.ParseFrameRate(rate)
			}
		case "audio":
			info.HasAudio = true
			info.AudioCodec = stream.Get("codec_name").String()
			info.SampleRate, _ = strconv.Atoi(stream.Get("sample_rate").String())
			// Streams without a container duration (raw wav) carry their own.
			if info.Duration == 0 {
				info.Duration = secondsToDuration(stream.Get("duration").Float())
			}
		}
		return true
	})

	return info, nil
}

func secondsToDuration(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
