package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,user_role"`
}

func TestCustomValidator_UserRole(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(sample{Email: "a@x.com", Role: "incident_responder"}))

	err := v.Validate(sample{Email: "a@x.com", Role: "hacker"})
	require.Error(t, err)

	var fieldErrs validator.ValidationErrors
	require.True(t, errors.As(err, &fieldErrs))
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "role", fieldErrs[0].Field())
	assert.Equal(t, TagUserRole, fieldErrs[0].Tag())
}

func TestCustomValidator_ReportsJSONNames(t *testing.T) {
	err := New().Validate(sample{Email: "not-an-email"})

	var fieldErrs validator.ValidationErrors
	require.True(t, errors.As(err, &fieldErrs))

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"email", "role"}, fields)
}
