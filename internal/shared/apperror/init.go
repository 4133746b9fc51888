package apperror

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterJSONTagNames makes FieldError.Field() return the json name
// (e.g. `json:"date_joined"`) instead of the Go field name.
func RegisterJSONTagNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
