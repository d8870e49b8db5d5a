package view

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDateValue is returned when a date column value cannot be
	// parsed during a sort or filter.
	ErrInvalidDateValue = errors.New("invalid date value")

	// ErrUnknownColumn is returned when a sort names a field that is not in
	// the column schema.
	ErrUnknownColumn = errors.New("unknown column")
)

// dateError wraps ErrInvalidDateValue with the offending field and value.
func dateError(field string, value any) error {
	return fmt.Errorf("%w: field %q: %v", ErrInvalidDateValue, field, value)
}
