package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data quality errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrDegenerateInput  = errors.New("degenerate input")

	// Execution errors
	ErrComputation   = errors.New("computation failed")
	ErrInvalidMethod = errors.New("invalid analysis method")
)

// Error constructors with context
func NewInsufficientDataError(method string, got, need int) error {
	return fmt.Errorf("%w: %s requires %d observations, got %d", ErrInsufficientData, method, need, got)
}

func NewDegenerateInputError(series string, reason string) error {
	return fmt.Errorf("%w: series %s %s", ErrDegenerateInput, series, reason)
}

func NewComputationError(method string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrComputation, method, err)
}

func NewInvalidMethodError(method string) error {
	return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
}

// Error checking helpers
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsDegenerateInput(err error) bool {
	return errors.Is(err, ErrDegenerateInput)
}

func IsComputationError(err error) bool {
	return errors.Is(err, ErrComputation)
}

func IsInvalidMethod(err error) bool {
	return errors.Is(err, ErrInvalidMethod)
}

// IsDataQualityError reports whether the failure is a property of the input
// data rather than of the computation itself.
func IsDataQualityError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDegenerateInput)
}
