// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"reflect"
	"strings"

	"cyberauth/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

// TagUserRole validates that a string field names one of the registration roles.
const TagUserRole = "user_role"

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

// New builds a validator that reports fields by their JSON names.
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}

		return name
	})

	// Registration only fails on an empty tag name, which this is not.
	_ = v.RegisterValidation(TagUserRole, func(fl validator.FieldLevel) bool {
		return entity.Role(fl.Field().String()).IsValid()
	})

	return &CustomValidator{validator: v}
}

// Validate runs the struct's `validate` tags.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}
