package classifier

import (
	"path/filepath"
	"strings"
)

// imageExts are the file extensions considered when scanning a training
// directory.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// LabelForFilename infers a training label from a filename convention:
// names starting with "y" or containing "tumor" are positive, names starting
// with "n" or containing "no" are negative, anything else is skipped.
// The convention is a best-effort proxy for ground truth; nothing checks it
// against pixel content.
func LabelForFilename(name string) (label int, ok bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "y") || strings.Contains(lower, "tumor"):
		return 1, true
	case strings.HasPrefix(lower, "n") || strings.Contains(lower, "no"):
		return 0, true
	default:
		return 0, false
	}
}

// isImageFile reports whether name has a recognized image extension.
func isImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}
