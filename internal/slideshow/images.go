// Package slideshow holds the filesystem side of building a slideshow:
// which images take part and where the rendered video goes.
package slideshow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoImages is returned when the image directory holds no file with a
// supported extension.
var ErrNoImages = errors.New("no images found in directory")

// DefaultExtensions are the image suffixes picked up from the image directory.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg"}

// ListImages returns the paths of the regular files in dir whose names end in
// one of exts, sorted lexicographically by name. Matching is case-sensitive.
func ListImages(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if hasSuffix(entry.Name(), exts) {
			names = append(names, entry.Name())
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoImages)
	}

	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// ImageNames returns the base names of the images in dir, in playback order.
// An unreadable or empty directory yields an empty list.
func ImageNames(dir string, exts []string) []string {
	paths, err := ListImages(dir, exts)
	if err != nil {
		return nil
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}

func hasSuffix(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
