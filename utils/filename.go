package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SanitizeFilename keeps only the base name of a client supplied filename.
// Returns "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(filepath.Base(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// GenerateImageName builds the stored asset name: {unixMillis}-{original}.
func GenerateImageName(t time.Time, original string) string {
	return fmt.Sprintf("%d-%s", t.UnixMilli(), original)
}

// IsValidImageName reports whether name is a bare file name that cannot
// escape the image root.
func IsValidImageName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
