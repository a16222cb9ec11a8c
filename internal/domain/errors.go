// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is the umbrella error for domain entity validation failures.
// Specific validation errors wrap it so callers can match the whole class
// with errors.Is.
var ErrValidation = errors.New("validation failed")

// Validation errors for OperationRecord.
var (
	ErrRecordIDEmpty        = fmt.Errorf("%w: operation record ID cannot be empty", ErrValidation)
	ErrRecordOperationEmpty = fmt.Errorf("%w: operation name cannot be empty", ErrValidation)
	ErrRecordTimestampZero  = fmt.Errorf("%w: operation record timestamp cannot be zero", ErrValidation)
)
