package service

import (
	"errors"

	"atsumeru/pkg/validator"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("token is required")
	ErrForbidden       = errors.New("token does not match")
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + " " + e.Msg
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// validationFrom converts a validator field error into a ValidationError.
func validationFrom(err error) error {
	var fe *validator.FieldError
	if errors.As(err, &fe) {
		return &ValidationError{Field: fe.Field, Msg: fe.Msg}
	}
	return &ValidationError{Msg: err.Error()}
}
