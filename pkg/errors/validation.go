package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxDimension bounds every coordinate and size accepted from callers.
// Larger values lose precision in the solver.
const MaxDimension = 1e9

// ValidateWidth validates a container width.
// Widths must be finite, positive and no larger than MaxDimension.
func ValidateWidth(width float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) {
		return New(ErrCodeInvalidWidth, "width must be a finite number")
	}
	if width <= 0 {
		return New(ErrCodeInvalidWidth, "width must be positive, got %g", width)
	}
	if width > MaxDimension {
		return New(ErrCodeInvalidWidth, "width too large (max %g)", MaxDimension)
	}
	return nil
}

// ValidateGap validates the spacing between panes. Zero is allowed and means
// "use the default".
func ValidateGap(gap float64) error {
	if math.IsNaN(gap) || math.IsInf(gap, 0) || gap < 0 {
		return New(ErrCodeInvalidGap, "gap must be a finite non-negative number, got %g", gap)
	}
	if gap > MaxDimension {
		return New(ErrCodeInvalidGap, "gap too large (max %g)", MaxDimension)
	}
	return nil
}

// ValidateDimension validates one coordinate or size of a pane.
// Sizes (nonNegative) must additionally be >= 0.
func ValidateDimension(name string, v float64, nonNegative bool) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidPane, "%s must be a finite number", name)
	}
	if nonNegative && v < 0 {
		return New(ErrCodeInvalidPane, "%s must not be negative, got %g", name, v)
	}
	if math.Abs(v) > MaxDimension {
		return New(ErrCodeInvalidPane, "%s too large (max %g)", name, MaxDimension)
	}
	return nil
}

// ValidateSceneFilename validates a scene file path.
// Only .json and .toml scenes are supported.
func ValidateSceneFilename(path string) error {
	if path == "" {
		return New(ErrCodeInvalidScene, "scene path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidScene, "scene path contains invalid characters")
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".toml":
		return nil
	}
	return New(ErrCodeInvalidScene, "unsupported scene file %q (must be .json or .toml)", filepath.Base(path))
}
