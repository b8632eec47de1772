package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateURL validates an image URL.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateImagePath validates a local image path supplied to the CLI.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Extension must be a decodable raster format
func ValidateImagePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "image path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp":
		return nil
	default:
		return New(ErrCodeInvalidPath, "unsupported image extension %q", filepath.Ext(path))
	}
}

// ValidateCopy checks that generated copy is present. Length budgets are
// the copy collaborator's responsibility; only emptiness is rejected here.
func ValidateCopy(headline, subhead, cta string) error {
	if strings.TrimSpace(headline) == "" {
		return New(ErrCodeInvalidInput, "headline cannot be empty")
	}
	if strings.TrimSpace(cta) == "" && strings.TrimSpace(subhead) == "" {
		return New(ErrCodeInvalidInput, "at least one of subhead or cta is required")
	}
	return nil
}
