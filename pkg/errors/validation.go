package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateItemID validates an item identifier for safety and correctness.
// IDs end up in cache keys, file names, and DOM-style element ids on the
// rendering side, so the rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 256 characters
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidBoard, "item id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidBoard, "item id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidBoard, "item id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidBoard, "item id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// hexColorRegex matches 3- or 6-digit hex color values with a leading #.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates an item color value. Empty is allowed (the
// renderer picks a palette color); non-empty values must be hex notation.
func ValidateHexColor(color string) error {
	if color == "" {
		return nil
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidBoard, "invalid color %q (expected #rgb or #rrggbb)", color)
	}
	return nil
}

// ValidateColumnBounds validates a [min, max] column-count pair.
func ValidateColumnBounds(minColumns, maxColumns int) error {
	if minColumns < 1 {
		return New(ErrCodeInvalidOptions, "min columns must be at least 1, got %d", minColumns)
	}
	if maxColumns < minColumns {
		return New(ErrCodeInvalidOptions,
			"max columns %d is below min columns %d", maxColumns, minColumns)
	}
	return nil
}

// ValidatePreload validates a [top, bottom] preload pair. Preload margins
// are screens-worth of extra content and must be finite and non-negative.
func ValidatePreload(top, bottom float64) error {
	for _, v := range []float64{top, bottom} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidQuery, "preload must be finite, got %g", v)
		}
		if v < 0 {
			return New(ErrCodeInvalidQuery, "preload must be non-negative, got %g", v)
		}
	}
	return nil
}

// ValidateScrollQuery validates the raw numeric signals of a viewport query.
// Non-finite values indicate a broken host signal rather than a transient
// state, so they are rejected at the boundary instead of propagating NaN
// arithmetic into the window.
func ValidateScrollQuery(scrollOffset, viewportExtent float64) error {
	if math.IsNaN(scrollOffset) || math.IsInf(scrollOffset, 0) {
		return New(ErrCodeInvalidQuery, "scroll offset must be finite, got %g", scrollOffset)
	}
	if math.IsNaN(viewportExtent) || math.IsInf(viewportExtent, 0) {
		return New(ErrCodeInvalidQuery, "viewport extent must be finite, got %g", viewportExtent)
	}
	if viewportExtent < 0 {
		return New(ErrCodeInvalidQuery, "viewport extent must be non-negative, got %g", viewportExtent)
	}
	return nil
}
