package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// boardIDRegex matches the IDs we accept in URLs and filenames: UUIDs and
// short human-chosen slugs.
var boardIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateBoardID validates a board identifier for safety and correctness.
// It rejects IDs that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 128 characters
func ValidateBoardID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidBoard, "board id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidBoard, "board id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidBoard, "board id contains invalid control characters")
		}
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidBoard, "board id cannot contain path traversal sequences (..)")
	}

	if !boardIDRegex.MatchString(id) {
		return New(ErrCodeInvalidBoard, "invalid board id: %q", id)
	}

	return nil
}

// ValidateLayerID validates a layer identifier. Layer IDs are generated as
// UUIDs but clients may send arbitrary strings, so the same conservative
// rules apply.
func ValidateLayerID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidLayer, "layer id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidLayer, "layer id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLayer, "layer id contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateOutputFormat validates a render output format name.
func ValidateOutputFormat(format string) error {
	switch format {
	case "svg", "png", "dot", "json":
		return nil
	default:
		return New(ErrCodeInvalidFormat, "invalid output format: %q (valid: svg, png, dot, json)", format)
	}
}
