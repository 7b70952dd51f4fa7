package service

import (
	"fmt"
	"strings"

	"eau-clair-web/pkg/validator"

	"github.com/pkg/errors"
)

var (
	ErrProductNotFound       = errors.New("Product not found")
	ErrInvalidCredentials    = errors.New("Incorrect email or password. Please try again.")
	ErrEmailDomainNotAllowed = errors.New("Please use a Gmail, Hotmail, or Yahoo email address.")
	ErrPasswordMismatch      = errors.New("Passwords do not match")
	ErrInvalidResetLink      = errors.New("Invalid or expired reset link. Please request a new one.")
	ErrProfileNotFound       = errors.New("Profile not found. Please contact support.")
	ErrNotAdmin              = errors.New("Access denied. Admin privileges required.")
)

// ValidationError lists the form fields that failed validation.
type ValidationError struct {
	Fields []*validator.ErrorResponse
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "Validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("Field '%s' failed on tag '%s'", f.FailedField, f.Tag))
	}
	return "Validation failed: " + strings.Join(msgs, "; ")
}

// HasField reports whether name is among the failed fields.
func (e *ValidationError) HasField(name string) bool {
	for _, f := range e.Fields {
		if f.FailedField == name {
			return true
		}
	}
	return false
}

func validate(data interface{}) error {
	if errs := validator.ValidateStruct(data); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
