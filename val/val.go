// Package val validates command inputs with go-playground/validator and
// reports failures as errx validation errors.
package val

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"
)

const CodeValidationFailed = "VALIDATION_FAILED"

var getValidator = sync.OnceValue(func() *validator.Validate { //nolint:gochecknoglobals // shared validator cache
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(tagName)
	return v
})

// ValidateSchema validates s by its `validate` tags. Field errors are
// returned in errx fields keyed by the json name of the field.
func ValidateSchema(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errx.New(
			fmt.Sprintf("unknown validation error: %s", err.Error()),
			errx.WithCode(CodeValidationFailed),
			errx.WithType(errx.T_Validation),
		)
	}

	fields := make(errx.M, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields[fieldErr.Field()] = describe(fieldErr)
	}

	return errx.New(
		"validation failed, see fields for details",
		errx.WithCode(CodeValidationFailed),
		errx.WithType(errx.T_Validation),
		errx.WithFields(fields),
	)
}

func tagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

var fixedDescriptions = map[string]string{ //nolint:gochecknoglobals // lookup table
	"required":   "Required field",
	"uuid":       "Must be a valid UUID",
	"uuid4":      "Must be a valid UUID v4",
	"alphanum":   "Must contain only alphanumeric characters",
	"printascii": "Must contain only printable ASCII characters",
}

func describe(fieldErr validator.FieldError) string {
	if desc, ok := fixedDescriptions[fieldErr.Tag()]; ok {
		return desc
	}

	param := fieldErr.Param()
	isString := fieldErr.Kind() == reflect.String

	switch fieldErr.Tag() {
	case "min":
		if isString {
			return fmt.Sprintf("Must be at least %s characters long", param)
		}
		return fmt.Sprintf("Must be at least %s", param)
	case "max":
		if isString {
			return fmt.Sprintf("Must be at most %s characters long", param)
		}
		return fmt.Sprintf("Must be at most %s", param)
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", param)
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(param, " ", ", "))
	}

	return fmt.Sprintf("Failed on the '%s' rule", fieldErr.Tag())
}
