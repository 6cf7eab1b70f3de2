package errors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	detailed := ErrMalformedHash.WithDetails("bcrypt: hashedSecret too short")

	assert.True(t, errors.Is(detailed, ErrMalformedHash))
	assert.False(t, errors.Is(detailed, ErrInvalidInput))
	assert.Equal(t, "stored password hash is malformed: bcrypt: hashedSecret too short", detailed.Error())
}

func TestError_WrapMessageKeepsKind(t *testing.T) {
	err := ErrInvalidCredentials.WrapMessage("login failed")

	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	assert.Equal(t, KindInvalidCredentials, KindOf(err))
	assert.Contains(t, err.Error(), "login failed")
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "sentinel", err: ErrDuplicateEmail, want: KindDuplicateEmail},
		{name: "wrapped", err: errors.Wrap(ErrTokenExpired, "validate"), want: KindTokenExpired},
		{name: "database", err: NewDatabaseExecuteError(errors.New("conn reset"), "insert"), want: KindInternal},
		{name: "plain", err: errors.New("boom"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestDatabaseExecuteError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseExecuteError(cause, "failed to create user")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "failed to create user", err.Details())
}
