package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var templates = map[string]string{
	"required": "{field} is required",
	"gt":       "{field} must be greater than {param}",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"min":      "{field} must be at least {param}",
	"max":      "{field} must be at most {param}",
	"oneof":    "{field} must be one of {param}",
	"gtefield": "{field} must not be lower than {param}",
	"uuid":     "{field} must be a valid UUID",
	"currency": "{field} must be an upper-case ISO 4217 code",
	"date":     "{field} must be a date formatted as YYYY-MM-DD",
}

// message renders the first failed rule that has a template. Rules without one fall back to the
// library text.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fieldErr := range fieldErrors {
		template, ok := templates[fieldErr.Tag()]
		if !ok {
			continue
		}

		return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(template)
	}

	return fieldErrors.Error()
}
