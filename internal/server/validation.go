// validation.go - Input sanitization helpers
package server

import (
	"path/filepath"
	"strings"
)

// sanitizeFilename normalises the uploader-supplied filename before it
// is stored as the display name. The name never participates in object
// keys or paths; this only keeps the stored value displayable.
func sanitizeFilename(filename string) string {
	// Remove path separators
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")

	// Remove null bytes
	filename = strings.ReplaceAll(filename, "\x00", "")

	// Trim spaces and dots from start/end
	filename = strings.Trim(filename, " .")

	// Limit length
	if len(filename) > 255 {
		ext := filepath.Ext(filename)
		nameWithoutExt := filename[:len(filename)-len(ext)]
		filename = nameWithoutExt[:255-len(ext)] + ext
	}

	if filename == "" {
		filename = "unnamed"
	}

	return filename
}
