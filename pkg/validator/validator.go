package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

// AllowedEmailDomains are the only mailbox providers accepted at signup.
var AllowedEmailDomains = []string{"@gmail.com", "@hotmail.com", "@yahoo.com"}

var validate = validator.New()

func init() {
	// Report form field names so messages match what the user typed into.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("allowed_email_domain", func(fl validator.FieldLevel) bool {
		return IsAllowedEmail(fl.Field().String())
	})
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// IsAllowedEmail reports whether email ends in one of AllowedEmailDomains, ignoring case.
func IsAllowedEmail(email string) bool {
	lower := strings.ToLower(strings.TrimSpace(email))
	for _, domain := range AllowedEmailDomains {
		if strings.HasSuffix(lower, domain) {
			return true
		}
	}
	return false
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: err.Error()}}
		}
		for _, err := range validationErrors {
			var element ErrorResponse
			element.FailedField = err.Field()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
