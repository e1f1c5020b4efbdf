package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kikiluvv/slideshow/internal/config"
	"github.com/kikiluvv/slideshow/internal/ffmpeg"
	"github.com/kikiluvv/slideshow/internal/gui"
	"github.com/kikiluvv/slideshow/internal/logging"
	"github.com/kikiluvv/slideshow/internal/pipeline"
	"github.com/kikiluvv/slideshow/internal/slideshow"
	"github.com/kikiluvv/slideshow/pkg/util"
)

var (
	cfgFile string
	logFile string
	verbose bool
)

var closeLog = func() error { return nil }

var createFlags struct {
	images   string
	audio    string
	output   string
	duration string
	end      string
	noBar    bool
}

func main() {
	ctx := context.Background()

	err := rootCmd.ExecuteContext(ctx)
	_ = closeLog()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slideshow",
	Short: "slideshow - turn a folder of images and a song into a video",
	Long:  "Builds an H.264/AAC slideshow from a directory of images and an audio track. Without a subcommand the form is opened.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		closer, err := logging.Init(logging.Options{Verbose: verbose, File: logFile})
		if err != nil {
			return err
		}
		closeLog = closer

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		return gui.Run(cmd.Context(), logging.WithComponent("app"), cfg, pipe)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	createCmd.Flags().StringVarP(&createFlags.images, "images", "i", "", "image directory (default from config)")
	createCmd.Flags().StringVarP(&createFlags.audio, "audio", "a", "", "audio file (default from config)")
	createCmd.Flags().StringVarP(&createFlags.output, "output", "o", "", "output file (default: next free outputN.mp4 in the output directory)")
	createCmd.Flags().StringVarP(&createFlags.duration, "duration", "d", "", "seconds per image, e.g. 5 or 00:05")
	createCmd.Flags().StringVarP(&createFlags.end, "end", "e", "", "end time of the video, e.g. 60 or 01:00")
	createCmd.Flags().BoolVar(&createFlags.noBar, "no-progress", false, "disable the progress bar")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(configCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a slideshow video",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		req, err := requestFromFlags(cfg)
		if err != nil {
			return err
		}

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		if !createFlags.noBar {
			bar = progressbar.NewOptions(100,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription(filepath.Base(req.Output)),
				progressbar.OptionSetPredictTime(true),
				progressbar.OptionClearOnFinish(),
			)
			req.ProgressFunc = func(p *ffmpeg.Progress) {
				_ = bar.Set(int(p.Percentage))
			}
		}

		res, err := pipe.Create(cmd.Context(), req)
		if bar != nil {
			_ = bar.Finish()
		}
		if errors.Is(err, slideshow.ErrNoImages) {
			log.Error().Str("dir", req.ImageDir).Msg("no images found in the image directory")
			return err
		}
		if err != nil {
			return err
		}

		log.Info().
			Str("output", res.Output).
			Int("images", len(res.Images)).
			Int("clips", len(res.Timeline.Clips)).
			Str("duration", util.FormatDuration(res.Duration)).
			Dur("elapsed", res.Elapsed).
			Msg("video created")

		return nil
	},
}

func requestFromFlags(cfg *config.Config) (pipeline.Request, error) {
	s := cfg.Slideshow
	req := pipeline.Request{
		ImageDir:      pick(createFlags.images, s.ImageDir),
		AudioFile:     pick(createFlags.audio, s.AudioFile),
		Output:        createFlags.output,
		ImageDuration: s.ImageDuration,
		EndTime:       s.EndTime,
	}

	if createFlags.duration != "" {
		d, err := util.ParseTimestamp(createFlags.duration)
		if err != nil {
			return req, fmt.Errorf("invalid --duration: %w", err)
		}
		req.ImageDuration = d
	}
	if createFlags.end != "" {
		d, err := util.ParseTimestamp(createFlags.end)
		if err != nil {
			return req, fmt.Errorf("invalid --end: %w", err)
		}
		req.EndTime = d
	}

	if req.Output == "" {
		req.Output = slideshow.SuggestOutputFilename(s.OutputDir)
	}

	return req, nil
}

func pick(flag, fallback string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	return fallback
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [output dir]",
	Short: "Print the next free output file name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := config.FromContext(cmd.Context()).Slideshow.OutputDir
		if len(args) == 1 {
			dir = args[0]
		}
		fmt.Fprintln(cmd.OutOrStdout(), slideshow.SuggestOutputFilename(dir))
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [media file]",
	Short: "Show duration and streams of a media file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		ff, err := ffmpeg.New(log.Logger, ffmpeg.Options{
			BinaryPath: cfg.FFmpeg.BinaryPath,
			ProbePath:  cfg.FFmpeg.ProbePath,
		})
		if err != nil {
			return err
		}

		info, err := ff.ProbeMedia(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "file:     %s\n", info.FilePath)
		fmt.Fprintf(out, "duration: %s (%ss)\n", util.FormatDuration(info.Duration), util.FormatSeconds(info.Duration))
		if info.HasVideo {
			fmt.Fprintf(out, "video:    %s %dx%d @ %.2f fps\n", info.VideoCodec, info.Width, info.Height, info.FPS)
		}
		if info.HasAudio {
			fmt.Fprintf(out, "audio:    %s %d Hz\n", info.AudioCodec, info.SampleRate)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(config.FromContext(cmd.Context()))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if util.FileExists(path) {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
