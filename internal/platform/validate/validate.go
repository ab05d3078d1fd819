// Package validate configures the request payload validator.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aquacore/aquacore/internal/platform/httpx"
)

// New returns a validator that reports field names from json tags so error
// messages match the wire-level payload.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Error converts a validator error into a 400-mappable validation error
// citing the first failing field, e.g. "customer_id is required".
func Error(err error) error {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return httpx.Validationf("invalid request payload")
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return httpx.Validationf(fmt.Sprintf("%s is required", fe.Field()))
	case "email":
		return httpx.Validationf(fmt.Sprintf("%s must be a valid email", fe.Field()))
	case "gte", "min":
		return httpx.Validationf(fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
	case "oneof":
		return httpx.Validationf(fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param()))
	default:
		return httpx.Validationf(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
