package http

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// phoneNumberRegexp accepts an optional leading + followed by 2 to 15 digits,
// the first of which must be 1-9.
var phoneNumberRegexp = regexp.MustCompile(`^\+?[1-9][0-9]{1,14}$`)

// NewValidator builds the request validator with the phone_number rule
// registered and field names reported by their json tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		return phoneNumberRegexp.MatchString(fl.Field().String())
	})
	return v
}

// formatValidationDetail turns validator errors into a per-field message
// suitable for the error body.
func formatValidationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed the '%s' rule", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
