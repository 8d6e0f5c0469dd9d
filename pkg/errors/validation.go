package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// InputFormats maps the accepted source file extensions to input formats.
var InputFormats = map[string]string{
	".json":     "json",
	".md":       "markdown",
	".markdown": "markdown",
}

// ValidateInputPath validates a source document path and returns its
// input format ("json" or "markdown").
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - The extension must be one of InputFormats
func ValidateInputPath(path string) (string, error) {
	if path == "" {
		return "", New(ErrCodeInvalidInput, "input path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return "", New(ErrCodeInvalidInput, "input path contains invalid control characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	format, ok := InputFormats[ext]
	if !ok {
		return "", New(ErrCodeInvalidFormat, "unsupported input %q (must be .json, .md or .markdown)", ext)
	}
	return format, nil
}

// ValidateFormat checks that an input format name is known.
func ValidateFormat(format string) error {
	for _, f := range InputFormats {
		if f == format {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be json or markdown)", format)
}

// ValidatePageSize rejects non-finite or non-positive page dimensions.
func ValidatePageSize(width, height float64) error {
	if !finitePositive(width) {
		return New(ErrCodeInvalidInput, "page width must be positive, got %v", width)
	}
	if !finitePositive(height) {
		return New(ErrCodeInvalidInput, "page height must be positive, got %v", height)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
