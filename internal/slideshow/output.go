package slideshow

import (
	"fmt"
	"path/filepath"

	"github.com/kikiluvv/slideshow/pkg/util"
)

const (
	outputBase = "output"
	outputExt  = ".mp4"
)

// SuggestOutputFilename returns the first dir/outputN.mp4, N starting at 1,
// that does not exist yet. It does not reserve the name.
func SuggestOutputFilename(dir string) string {
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s%d%s", outputBase, i, outputExt))
		if !util.FileExists(candidate) {
			return candidate
		}
	}
}
