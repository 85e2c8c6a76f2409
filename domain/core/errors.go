package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrUnsupportedConfig = errors.New("unsupported periodogram configuration")
	ErrInvalidPrecision  = errors.New("precision must be positive")
	ErrDegreeBounds      = errors.New("invalid fourier degree bounds")

	// Data errors
	ErrInsufficientData = errors.New("insufficient data for fit")
	ErrEmptyDataset     = errors.New("empty dataset")
	ErrLengthMismatch   = errors.New("mask length does not match data length")

	// Numeric errors
	ErrNonConvergence = errors.New("regression failed to converge")

	// ErrZeroPeriod is a caller contract violation: phasing by a zero
	// period is undefined. It is used as a panic value, not returned.
	ErrZeroPeriod = errors.New("cannot phase by a zero period")
)

// Error constructors with context
func NewUnsupportedConfigError(estimator string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrUnsupportedConfig, estimator, reason)
}

func NewInsufficientDataError(inliers, folds int) error {
	return fmt.Errorf("%w: %d inliers with %d cross-validation folds", ErrInsufficientData, inliers, folds)
}

func NewNonConvergenceError(detail string) error {
	return fmt.Errorf("%w: %s", ErrNonConvergence, detail)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrUnsupportedConfig) ||
		errors.Is(err, ErrInvalidPrecision) ||
		errors.Is(err, ErrDegreeBounds)
}

// IsNullResult reports whether err marks an expected, batch-tolerant
// failure: the star is skipped, the run continues.
func IsNullResult(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrNonConvergence) ||
		errors.Is(err, ErrEmptyDataset)
}
