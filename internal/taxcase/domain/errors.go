package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField   = errors.New("missing_field")
	ErrNegativeAmount = errors.New("negative_amount")
	ErrInvalidPurpose = errors.New("invalid_purpose")
	ErrInvalidRate    = errors.New("invalid_rate")
)

// FieldError names the invoice figure that broke a precondition.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error { return e.Err }

func missingField(field string) error {
	return &FieldError{Field: field, Err: ErrMissingField}
}

func negativeAmount(field string) error {
	return &FieldError{Field: field, Err: ErrNegativeAmount}
}
