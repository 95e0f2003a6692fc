package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxElementIDLength bounds element identifiers accepted from panel files.
const maxElementIDLength = 256

// ValidateElementID validates an element identifier for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - No '/', since ids appear as URL path segments
//   - Maximum length of 256 characters
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "element id cannot be empty")
	}

	if len(id) > maxElementIDLength {
		return New(ErrCodeInvalidInput, "element id too long (max %d characters)", maxElementIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "element id %q contains invalid control characters", id)
		}
	}

	if strings.ContainsRune(id, '/') {
		return New(ErrCodeInvalidInput, "element id %q cannot contain '/'", id)
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidInput, "element id %q has surrounding whitespace", id)
	}

	return nil
}

// ValidateNormalizedRect validates a rectangle given in normalized [0,1]
// container units.
//
// Validation rules:
//   - All fields finite (no NaN or Inf)
//   - Width and height non-negative
//   - The rectangle lies within the unit square, allowing tol of drift
func ValidateNormalizedRect(x, y, w, h, tol float64) error {
	for _, v := range []float64{x, y, w, h} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidRect, "rect {%g %g %g %g} has non-finite fields", x, y, w, h)
		}
	}

	if w < 0 || h < 0 {
		return New(ErrCodeInvalidRect, "rect {%g %g %g %g} has negative size", x, y, w, h)
	}

	if x < -tol || y < -tol || x+w > 1+tol || y+h > 1+tol {
		return New(ErrCodeInvalidRect, "rect {%g %g %g %g} lies outside the unit square", x, y, w, h)
	}

	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
