package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// checkStruct runs the struct tags of v. Failures of the fields listed in
// messages use that message, every other failure uses fallback.
func checkStruct(v any, fallback string, messages map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := messages[fieldErrs[0].Field()]; ok {
			return newValidationError(msg)
		}
	}
	return newValidationError(fallback)
}

// nullIfEmpty maps blank optional text to NULL.
func nullIfEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func nullIfZero(n *int) *int {
	if n == nil || *n == 0 {
		return nil
	}
	return n
}
