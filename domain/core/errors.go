package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input-shape errors: the engine answers these with an empty report
	ErrEmptyDataset     = errors.New("dataset is empty")
	ErrNoNumericColumn  = errors.New("dataset has no usable numeric column")
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Dataset construction errors
	ErrColumnLengthMismatch = errors.New("columns have different row counts")
	ErrDuplicateColumn      = errors.New("duplicate column name")
	ErrUnknownColumn        = errors.New("unknown column")

	// Request validation errors, surfaced to callers
	ErrUnknownTemplate = errors.New("unknown dashboard template")
	ErrUnknownPlan     = errors.New("unknown plan tier")
	ErrUnknownPeriod   = errors.New("unknown period filter")
)

// NewColumnError reports a problem tied to a named column
func NewColumnError(err error, column string) error {
	return fmt.Errorf("%w: %q", err, column)
}

// IsInputShapeError reports errors that degrade to an empty report
func IsInputShapeError(err error) bool {
	return errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrNoNumericColumn) ||
		errors.Is(err, ErrInsufficientData)
}

// IsRequestError reports errors caused by an invalid caller request
func IsRequestError(err error) bool {
	return errors.Is(err, ErrUnknownTemplate) ||
		errors.Is(err, ErrUnknownPlan) ||
		errors.Is(err, ErrUnknownPeriod) ||
		errors.Is(err, ErrColumnLengthMismatch) ||
		errors.Is(err, ErrDuplicateColumn)
}
