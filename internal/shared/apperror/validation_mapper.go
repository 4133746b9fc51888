package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MsgRequired     = "This field is required."
	MsgInvalidEmail = "Enter a valid email address."
)

// formatFieldName turns "date_joined" into "Date Joined".
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be empty.", formatFieldName(e.Field()))
	case "email":
		return MsgInvalidEmail
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
	default:
		return fmt.Sprintf("%s is invalid.", formatFieldName(e.Field()))
	}
}

// MapValidationError converts validator output into a ValidationError
// keyed by json field name. Requires RegisterJSONTagNames on the validator.
func MapValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}

	out := NewValidationError()

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			out.Add(e.Field(), messageFor(e))
		}
		return out
	}

	out.Add("non_field_errors", "Invalid input.")
	return out
}
