package usecase

import (
	"errors"

	"yamdb/pkg/utils"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("already exists")
	ErrForbidden   = errors.New("permission denied")
	ErrInvalidCode = errors.New("invalid confirmation code")
)

// ValidationError carries per-field messages and matches ErrValidation
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func fieldError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// validate runs struct tags and returns a *ValidationError when any fail
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
