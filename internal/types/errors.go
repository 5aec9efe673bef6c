package types

import "fmt"

// ValidationError is returned when a caller violates a precondition of
// an operation. It is never used for data quality problems like possible
// duplicates or unbalanced links, those are returned as data.
type ValidationError struct {
	Field string
	Err   error
}

// NewValidationError wraps err for the given field.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
