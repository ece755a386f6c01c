package utils

import (
	"errors"
	"fmt"
	"strings"

	"food-ordering/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateStruct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, err := range validationErrors {
			errs[err.Field()] = getErrorMessage(err)
		}
	}

	return errs
}

// Validate runs ValidateStruct and turns field errors into a validation
// apperror.
func Validate(data interface{}) error {
	if errs := ValidateStruct(data); len(errs) > 0 {
		return apperror.ValidationFields("Validation failed", errs)
	}
	return nil
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min", "gte":
		return fmt.Sprintf("Minimum is %s", err.Param())
	case "max", "lte":
		return fmt.Sprintf("Maximum is %s", err.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s items", err.Param())
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("Must be one of: %s", options)
	case "eqfield":
		return fmt.Sprintf("Must match %s", err.Param())
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "required_without":
		return fmt.Sprintf("Required when %s is missing", err.Param())
	case "numeric":
		return "Must contain digits only"
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}

// formats validation errors map into single string
func FormatValidationErrors(errors map[string]string) string {
	var msgs []string
	for field, msg := range errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(msgs, "; ")
}
