package pipeline

import (
	"fmt"
	"strconv"
	"time"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/kikiluvv/slideshow/internal/clips"
	"github.com/kikiluvv/slideshow/pkg/util"
)

// buildPassGraph renders one traversal of the images: every clip is a looped
// still input letterboxed onto the canvas with its own fade from black, and
// the clips are concatenated into a silent video.
func buildPassGraph(pass []*clips.Clip, output string, cfg Config) (*ffmpeggo.Stream, error) {
	if len(pass) == 0 {
		return nil, fmt.Errorf("timeline has no clips")
	}

	width, height := strconv.Itoa(cfg.Width), strconv.Itoa(cfg.Height)

	segments := make([]*ffmpeggo.Stream, 0, len(pass))
	for _, c := range pass {
		in := ffmpeggo.Input(c.Image, ffmpeggo.KwArgs{
			"loop":      "1",
			"framerate": strconv.Itoa(c.FPS),
			"t":         util.FormatSeconds(c.Duration),
		})

		v := in.Video().
			Filter("scale", nil, ffmpeggo.KwArgs{
				"w":                           width,
				"h":                           height,
				"force_original_aspect_ratio": "decrease",
			}).
			Filter("pad", nil, ffmpeggo.KwArgs{
				"w":     width,
				"h":     height,
				"x":     "(ow-iw)/2",
				"y":     "(oh-ih)/2",
				"color": "black",
			}).
			Filter("setsar", ffmpeggo.Args{"1"}).
			Filter("fps", ffmpeggo.Args{strconv.Itoa(c.FPS)})

		if c.FadeIn > 0 {
			v = v.Filter("fade", nil, ffmpeggo.KwArgs{
				"t":  "in",
				"st": "0",
				"d":  util.FormatSeconds(c.FadeIn),
			})
		}

		segments = append(segments, v)
	}

	outArgs, err := cfg.Encode.OutputArgs()
	if err != nil {
		return nil, err
	}
	delete(outArgs, "c:a")

	video := ffmpeggo.Concat(segments)
	return ffmpeggo.Output([]*ffmpeggo.Stream{video}, output, outArgs), nil
}

// buildFinalGraph plays the pass list back to back without re-encoding,
// attaches the audio and cuts both to duration.
func buildFinalGraph(passList, audioFile, output string, duration time.Duration, cfg Config) (*ffmpeggo.Stream, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("invalid output duration %v", duration)
	}

	outArgs, err := cfg.Encode.OutputArgs()
	if err != nil {
		return nil, err
	}

	video := ffmpeggo.Input(passList, ffmpeggo.KwArgs{"f": "concat", "safe": "0"}).Video()
	audio := ffmpeggo.Input(audioFile).Audio()

	return ffmpeggo.Output([]*ffmpeggo.Stream{video, audio}, output, ffmpeggo.KwArgs{
		"c:v":      "copy",
		"c:a":      outArgs["c:a"],
		"t":        util.FormatSeconds(duration),
		"movflags": "+faststart",
	}), nil
}
