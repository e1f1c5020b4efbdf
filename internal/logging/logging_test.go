package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

func TestNewLoggerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	logger := NewLogger(&a, &b)
	logger.Info().Str("output", "output1.mp4").Msg("slideshow created")

	for name, buf := range map[string]*bytes.Buffer{"first": &a, "second": &b} {
		if got := gjson.Get(buf.String(), "output").String(); got != "output1.mp4" {
			t.Errorf("%s writer: expected output field, got %q", name, buf.String())
		}
	}
}

func TestInitWritesLogFile(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "slideshow.log")
	closeLog, err := Init(Options{Verbose: true, File: path})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	logger := WithComponent("pipeline")
	logger.Debug().Int("clips", 12).Msg("slideshow planned")
	if err := closeLog(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(string(data))
	if gjson.Get(line, "component").String() != "pipeline" {
		t.Errorf("expected component field, got %s", line)
	}
	if gjson.Get(line, "clips").Int() != 12 {
		t.Errorf("expected debug line with clips, got %s", line)
	}
}

func TestInitDefaultLevel(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	closeLog, err := Init(Options{})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer closeLog()

	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("expected info level, got %v", zerolog.GlobalLevel())
	}
}

func TestInitNoColorWhenRedirected(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	prevStderr := os.Stderr
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
		os.Stderr = prevStderr
	})

	f, err := os.Create(filepath.Join(t.TempDir(), "stderr.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	os.Stderr = f

	closeLog, err := Init(Options{})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer closeLog()

	log.Info().Str("output", "output1.mp4").Msg("slideshow created")

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "slideshow created") {
		t.Fatalf("expected console line, got %q", data)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Errorf("expected no color codes when stderr is a file, got %q", data)
	}
}
