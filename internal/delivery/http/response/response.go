// Package response holds the JSON bodies written by the HTTP handlers.
package response

import (
	"net/http"

	"cyberauth/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    entity.PublicUser `json:"user"`
}

// UserResponse wraps the authenticated user.
type UserResponse struct {
	User entity.PublicUser `json:"user"`
}

// MessageResponse carries a plain status line.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string       `json:"detail"`           // User-facing message
	Code   string       `json:"code"`             // Failure kind, e.g. "INVALID_CREDENTIALS"
	Errors []FieldError `json:"errors,omitempty"` // Per-field problems for validation failures
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Auth writes a token and the public user fields.
func Auth(c echo.Context, statusCode int, message, token string, user entity.PublicUser) error {
	return c.JSON(statusCode, AuthResponse{
		Message: message,
		Token:   token,
		User:    user,
	})
}

// User writes the public fields of a user.
func User(c echo.Context, user entity.PublicUser) error {
	return c.JSON(http.StatusOK, UserResponse{User: user})
}

// Message writes a plain status line.
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, MessageResponse{Message: message})
}

// Error error response
func Error(c echo.Context, statusCode int, errorCode, detail string) error {
	if detail == "" {
		detail = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, ErrorResponse{
		Detail: detail,
		Code:   errorCode,
	})
}

// ValidationError writes a 422 listing each rejected field.
func ValidationError(c echo.Context, errorCode, detail string, fields []FieldError) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Detail: detail,
		Code:   errorCode,
		Errors: fields,
	})
}
