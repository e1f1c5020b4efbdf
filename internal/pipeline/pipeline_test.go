package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/slideshow/internal/config"
	"github.com/kikiluvv/slideshow/internal/ffmpeg"
	"github.com/kikiluvv/slideshow/internal/slideshow"
)

type fakeProber struct {
	info  *ffmpeg.MediaInfo
	err   error
	calls int
}

func (f *fakeProber) ProbeMedia(ctx context.Context, path string) (*ffmpeg.MediaInfo, error) {
	f.calls++
	return f.info, f.err
}

func audioOf(d time.Duration) *fakeProber {
	return &fakeProber{info: &ffmpeg.MediaInfo{HasAudio: true, Duration: d}}
}

func testConfig() Config {
	return ConfigFrom(config.Default())
}

func touchImages(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func newRequest(dir string) Request {
	return Request{
		ImageDir:      dir,
		AudioFile:     "song.mp3",
		Output:        filepath.Join(dir, "out", "output1.mp4"),
		ImageDuration: 5 * time.Second,
		EndTime:       60 * time.Second,
	}
}

func TestPlanNoImages(t *testing.T) {
	dir := t.TempDir()
	touchImages(t, dir, "notes.txt")
	prober := audioOf(90 * time.Second)
	req := newRequest(dir)

	_, err := plan(context.Background(), prober, testConfig(), req)
	if !errors.Is(err, slideshow.ErrNoImages) {
		t.Fatalf("expected ErrNoImages, got %v", err)
	}
	if prober.calls != 0 {
		t.Error("audio should not be probed when there are no images")
	}
	if _, err := os.Stat(filepath.Dir(req.Output)); !os.IsNotExist(err) {
		t.Error("no output should be created for an empty image directory")
	}
}

func TestPlanRepeatsAndTruncates(t *testing.T) {
	dir := t.TempDir()
	touchImages(t, dir, "c.jpeg", "a.png", "b.jpg")

	res, err := plan(context.Background(), audioOf(90*time.Second), testConfig(), newRequest(dir))
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	if res.Timeline.Repeats != 5 {
		t.Errorf("expected 5 repeats, got %d", res.Timeline.Repeats)
	}
	if len(res.Timeline.Clips) != 12 {
		t.Errorf("expected 12 clips, got %d", len(res.Timeline.Clips))
	}
	if res.Duration != 60*time.Second {
		t.Errorf("expected 60s, got %v", res.Duration)
	}

	wantOrder := []string{"a.png", "b.jpg", "c.jpeg"}
	for i, c := range res.Timeline.Clips[:3] {
		if filepath.Base(c.Image) != wantOrder[i] {
			t.Errorf("clip %d: expected %s, got %s", i, wantOrder[i], filepath.Base(c.Image))
		}
		if c.FadeIn != time.Second || c.FPS != 24 {
			t.Errorf("clip %d: unexpected fade %v / fps %d", i, c.FadeIn, c.FPS)
		}
	}
}

func TestPlanAudioShorterThanEndTime(t *testing.T) {
	dir := t.TempDir()
	touchImages(t, dir, "a.png", "b.png")

	res, err := plan(context.Background(), audioOf(42500*time.Millisecond), testConfig(), newRequest(dir))
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if res.Duration != 42500*time.Millisecond {
		t.Errorf("expected audio length, got %v", res.Duration)
	}
	if res.Timeline.Duration() < res.Duration {
		t.Errorf("timeline %v shorter than output %v", res.Timeline.Duration(), res.Duration)
	}
}

func TestPlanProbeFailure(t *testing.T) {
	dir := t.TempDir()
	touchImages(t, dir, "a.png")
	probeErr := errors.New("boom")

	_, err := plan(context.Background(), &fakeProber{err: probeErr}, testConfig(), newRequest(dir))
	if !errors.Is(err, probeErr) {
		t.Fatalf("expected wrapped probe error, got %v", err)
	}
}

func TestPlanRejectsSilentInput(t *testing.T) {
	dir := t.TempDir()
	touchImages(t, dir, "a.png")
	prober := &fakeProber{info: &ffmpeg.MediaInfo{HasVideo: true, Duration: time.Minute}}

	if _, err := plan(context.Background(), prober, testConfig(), newRequest(dir)); err == nil {
		t.Fatal("expected error for input without audio")
	}
}

func TestValidateRequest(t *testing.T) {
	base := newRequest(t.TempDir())

	cases := map[string]func(r *Request){
		"image dir": func(r *Request) { r.ImageDir = "" },
		"audio":     func(r *Request) { r.AudioFile = "" },
		"output":    func(r *Request) { r.Output = "" },
		"duration":  func(r *Request) { r.ImageDuration = 0 },
		"end time":  func(r *Request) { r.EndTime = -time.Second },
	}
	for name, mutate := range cases {
		req := base
		mutate(&req)
		if err := validateRequest(req); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
	if err := validateRequest(base); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
}

func TestBuildPassGraphArgs(t *testing.T) {
	dir := t.TempDir()
	touchImages(t, dir, "a.png", "b.jpg", "c.jpeg")

	res, err := plan(context.Background(), audioOf(90*time.Second), testConfig(), newRequest(dir))
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	graph, err := buildPassGraph(res.Timeline.Pass(), "pass.mp4", testConfig())
	if err != nil {
		t.Fatalf("buildPassGraph failed: %v", err)
	}

	args := graph.GetArgs()
	joined := strings.Join(args, " ")

	if n := countArg(args, "-i"); n != 3 {
		t.Errorf("expected one input per image, got %d", n)
	}
	if n := strings.Count(joined, "fade="); n != 3 {
		t.Errorf("expected a fade on every clip, got %d", n)
	}
	for _, want := range []string{
		"-loop 1",
		"concat=n=3",
		"force_original_aspect_ratio=decrease",
		"-c:v libx264",
		"-r 24",
		"pass.mp4",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in args: %s", want, joined)
		}
	}
	if strings.Contains(joined, "-c:a") {
		t.Errorf("pass render has no audio, got %s", joined)
	}
}

func TestBuildFinalGraphArgs(t *testing.T) {
	graph, err := buildFinalGraph("passes.txt", "song.mp3", "out.mp4", 42500*time.Millisecond, testConfig())
	if err != nil {
		t.Fatalf("buildFinalGraph failed: %v", err)
	}

	args := graph.GetArgs()
	joined := strings.Join(args, " ")

	if n := countArg(args, "-i"); n != 2 {
		t.Errorf("expected pass list and audio inputs, got %d", n)
	}
	for _, want := range []string{
		"-f concat",
		"-safe 0",
		"passes.txt",
		"song.mp3",
		"0:v",
		"1:a",
		"-c:v copy",
		"-c:a aac",
		"-t 42.500",
		"out.mp4",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in args: %s", want, joined)
		}
	}
	if strings.Contains(joined, "-filter_complex") {
		t.Errorf("final step should not filter, got %s", joined)
	}
}

func TestGraphsStayBoundedForLongSlideshows(t *testing.T) {
	dir := t.TempDir()
	touchImages(t, dir, "a.png", "b.jpg", "c.jpeg")

	req := newRequest(dir)
	req.EndTime = time.Hour
	res, err := plan(context.Background(), audioOf(2*time.Hour), testConfig(), req)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if len(res.Timeline.Clips) != 720 {
		t.Fatalf("expected 720 clips, got %d", len(res.Timeline.Clips))
	}
	if res.Timeline.Passes() != 240 {
		t.Errorf("expected 240 passes, got %d", res.Timeline.Passes())
	}

	passGraph, err := buildPassGraph(res.Timeline.Pass(), "pass.mp4", testConfig())
	if err != nil {
		t.Fatal(err)
	}
	finalGraph, err := buildFinalGraph("passes.txt", "song.mp3", "out.mp4", res.Duration, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	for name, args := range map[string][]string{"pass": passGraph.GetArgs(), "final": finalGraph.GetArgs()} {
		if n := countArg(args, "-i"); n > 3 {
			t.Errorf("%s: %d inputs for a three image slideshow", name, n)
		}
		total := 0
		for _, a := range args {
			if len(a) > 4096 {
				t.Errorf("%s: argument of %d bytes", name, len(a))
			}
			total += len(a)
		}
		if total > 16<<10 {
			t.Errorf("%s: %d bytes of arguments", name, total)
		}
	}
}

func TestBuildGraphsRejectInvalidInput(t *testing.T) {
	if _, err := buildPassGraph(nil, "pass.mp4", testConfig()); err == nil {
		t.Error("expected error for empty pass")
	}
	if _, err := buildFinalGraph("passes.txt", "song.mp3", "out.mp4", 0, testConfig()); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestStageProgress(t *testing.T) {
	if stageProgress(nil, 0, 90) != nil {
		t.Error("expected nil func for nil callback")
	}

	var got []*ffmpeg.Progress
	record := func(p *ffmpeg.Progress) { got = append(got, p) }

	stageProgress(record, 0, 90)(&ffmpeg.Progress{Percentage: 50})
	stageProgress(record, 0, 90)(&ffmpeg.Progress{Percentage: 100, Done: true})
	stageProgress(record, 90, 100)(&ffmpeg.Progress{Percentage: 100, Done: true})

	want := []struct {
		pct  float64
		done bool
	}{{45, false}, {90, false}, {100, true}}
	for i, w := range want {
		if got[i].Percentage != w.pct || got[i].Done != w.done {
			t.Errorf("update %d: expected %v/%v, got %v/%v", i, w.pct, w.done, got[i].Percentage, got[i].Done)
		}
	}
}

func countArg(args []string, flag string) int {
	n := 0
	for _, a := range args {
		if a == flag {
			n++
		}
	}
	return n
}

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH - install with: brew install ffmpeg")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH - install with: brew install ffmpeg")
	}
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestIntegration_CreateSlideshow(t *testing.T) {
	skipIfNoFFmpeg(t)

	dir := t.TempDir()
	imgDir := filepath.Join(dir, "img")
	if err := os.Mkdir(imgDir, 0755); err != nil {
		t.Fatal(err)
	}
	// mixed sizes exercise the letterboxing onto one canvas
	writePNG(t, filepath.Join(imgDir, "a.png"), 64, 48, color.RGBA{255, 0, 0, 255})
	writePNG(t, filepath.Join(imgDir, "b.png"), 48, 64, color.RGBA{0, 255, 0, 255})

	audio := filepath.Join(dir, "tone.wav")
	gen := exec.Command("ffmpeg", "-y", "-f", "lavfi", "-i", "sine=frequency=440:duration=3", audio)
	if out, err := gen.CombinedOutput(); err != nil {
		t.Skipf("could not generate test audio: %v: %s", err, out)
	}

	cfg := config.Default()
	cfg.Slideshow.Width = 320
	cfg.Slideshow.Height = 240
	cfg.FFmpeg.Preset = "ultrafast"

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	p, err := New(logger, cfg)
	if err != nil {
		t.Fatalf("failed to create pipeline: %v", err)
	}

	output := slideshow.SuggestOutputFilename(filepath.Join(dir, "output"))
	res, err := p.Create(context.Background(), Request{
		ImageDir:      imgDir,
		AudioFile:     audio,
		Output:        output,
		ImageDuration: time.Second,
		EndTime:       5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if res.ID == "" {
		t.Error("expected a run id")
	}

	// audio is 3s, end time 5s: output must be cut to the audio
	if res.Duration != 3*time.Second {
		t.Errorf("expected planned duration 3s, got %v", res.Duration)
	}

	info, err := p.Prober().ProbeMedia(context.Background(), output)
	if err != nil {
		t.Fatalf("probe of output failed: %v", err)
	}
	if !info.HasVideo || !info.HasAudio {
		t.Errorf("expected audio and video streams, got %+v", info)
	}
	if diff := info.Duration - 3*time.Second; diff < -150*time.Millisecond || diff > 150*time.Millisecond {
		t.Errorf("expected ~3s output, got %v", info.Duration)
	}
	if info.Width != 320 || info.Height != 240 {
		t.Errorf("expected 320x240 canvas, got %dx%d", info.Width, info.Height)
	}
}
