package ffmpeg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteConcatList writes a concat demuxer file list naming inputs in order.
// An input may appear more than once.
func WriteConcatList(path string, inputs []string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files provided")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create concat file: %w", err)
	}
	defer f.Close()

	for _, input := range inputs {
		absPath, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", quoteConcatPath(absPath)); err != nil {
			return err
		}
	}

	return f.Close()
}

// quoteConcatPath escapes single quotes for a single-quoted concat entry
func quoteConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}
