package validator

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"atsumeru/internal/model"
)

var global *validator.Validate

const (
	ErrInvalidFormat      = "has invalid format"
	ErrFieldRequired      = "is required"
	ErrFieldExceedsMaxLen = "exceeds maximum length"
	ErrFieldBelowMinLen   = "is below minimum length"
	ErrFieldExceedsMaxVal = "exceeds maximum value"
	ErrFieldBelowMinVal   = "is below minimum value"
	ErrUnknownValidation  = "is invalid"
)

// FieldError is the first failed rule of a validated struct.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Msg
}

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("rsvp", validateRSVP)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func validateRSVP(fl validator.FieldLevel) bool {
	return model.RSVP(fl.Field().String()).Valid()
}

// Validate runs struct validation and returns a *FieldError for the first failure.
func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) || len(vErrors) == 0 {
		return err
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = ErrFieldRequired
	case "max":
		msg = ErrFieldExceedsMaxLen
	case "min":
		msg = ErrFieldBelowMinLen
	case "lt", "lte":
		msg = ErrFieldExceedsMaxVal
	case "gt", "gte":
		msg = ErrFieldBelowMinVal
	case "rsvp":
		msg = "must be one of yes, maybe, no"
	case "email":
		msg = "must be a valid e-mail address"
	case "url":
		msg = "must be a valid URL"
	case "datetime":
		msg = ErrInvalidFormat
	default:
		msg = ErrUnknownValidation
	}
	return &FieldError{Field: ve.Field(), Msg: msg}
}
