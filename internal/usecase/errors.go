package usecase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrValidation              = errors.New("validation failed")
	ErrInvalidServiceReference = errors.New("invalid service reference")
	ErrNotFound                = errors.New("not found")
	ErrNotCancelable           = errors.New("booking cannot be canceled")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrPersistence             = errors.New("persistence failure")
	ErrUnauthorized            = errors.New("unauthorized")
)

// ValidationError lists the offending fields of a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrValidation, e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InvalidServiceReferenceError names the cart service that is unknown or inactive.
type InvalidServiceReferenceError struct {
	ServiceID uuid.UUID
}

func (e *InvalidServiceReferenceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidServiceReference, e.ServiceID)
}

func (e *InvalidServiceReferenceError) Unwrap() error { return ErrInvalidServiceReference }

func validationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
