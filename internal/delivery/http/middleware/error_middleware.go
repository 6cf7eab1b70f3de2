package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	deliverycontext "cyberauth/internal/delivery/context"
	"cyberauth/internal/delivery/http/response"
	httpvalidator "cyberauth/internal/delivery/http/validator"
	"cyberauth/internal/domain/entity"
	domainerrors "cyberauth/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const codeHTTPError = "HTTP_ERROR"

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// StatusFor maps a failure kind to its HTTP status.
func StatusFor(kind domainerrors.Kind) int {
	switch kind {
	case domainerrors.KindInvalidInput, domainerrors.KindDuplicateEmail:
		return http.StatusBadRequest
	case domainerrors.KindInvalidCredentials,
		domainerrors.KindTokenExpired,
		domainerrors.KindBadSignature,
		domainerrors.KindMalformedToken:
		return http.StatusUnauthorized
	case domainerrors.KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Field-level failures from c.Validate
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		_ = response.ValidationError(c, string(domainerrors.KindValidation), domainerrors.ErrValidationFailed.Message(), toFieldErrors(fieldErrs))

		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		m.writeAppError(c, err, appErr)

		return
	}

	// Routing, body limit and binding errors raised by echo itself
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, codeHTTPError, message)

		return
	}

	m.log(c).Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = response.Error(c, http.StatusInternalServerError, string(domainerrors.KindInternal), domainerrors.ErrInternalError.Message())
}

func (m *ErrorMiddleware) writeAppError(c echo.Context, err error, appErr domainerrors.AppError) {
	status := StatusFor(appErr.Kind())

	switch {
	case status >= http.StatusInternalServerError:
		// Storage and hash corruption details stay in the log.
		m.log(c).Error("Request failed",
			slog.String("kind", string(appErr.Kind())),
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
		_ = response.Error(c, status, string(domainerrors.KindInternal), domainerrors.ErrInternalError.Message())

	case appErr.Kind() == domainerrors.KindValidation:
		var fields []response.FieldError
		if appErr.Details() != "" {
			fields = []response.FieldError{{Field: "body", Message: appErr.Details()}}
		}
		_ = response.ValidationError(c, string(appErr.Kind()), appErr.Message(), fields)

	default:
		if status == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		_ = response.Error(c, status, string(appErr.Kind()), appErr.Message())
	}
}

func (m *ErrorMiddleware) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
}

func toFieldErrors(errs validator.ValidationErrors) []response.FieldError {
	fields := make([]response.FieldError, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, response.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}

	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case httpvalidator.TagUserRole:
		roles := make([]string, 0, len(entity.AllRoles()))
		for _, role := range entity.AllRoles() {
			roles = append(roles, role.String())
		}

		return "must be one of " + strings.Join(roles, ", ")
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
