package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"cyberauth/internal/delivery/http/response"
	domainerrors "cyberauth/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind domainerrors.Kind
		want int
	}{
		{domainerrors.KindInvalidInput, http.StatusBadRequest},
		{domainerrors.KindDuplicateEmail, http.StatusBadRequest},
		{domainerrors.KindInvalidCredentials, http.StatusUnauthorized},
		{domainerrors.KindTokenExpired, http.StatusUnauthorized},
		{domainerrors.KindBadSignature, http.StatusUnauthorized},
		{domainerrors.KindMalformedToken, http.StatusUnauthorized},
		{domainerrors.KindValidation, http.StatusUnprocessableEntity},
		{domainerrors.KindMalformedHash, http.StatusInternalServerError},
		{domainerrors.KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.kind))
		})
	}
}

func handle(t *testing.T, err error) (*httptest.ResponseRecorder, response.ErrorResponse) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil), rec)

	NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))).HandleHTTPError(err, c)

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec, body
}

func TestHandleHTTPError_AppErrors(t *testing.T) {
	rec, body := handle(t, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", body.Code)
	assert.Equal(t, "Invalid email or password", body.Detail)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))

	rec, body = handle(t, domainerrors.ErrDuplicateEmail.WrapMessage("registration rejected"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User with this email already exists", body.Detail)
	assert.Empty(t, rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestHandleHTTPError_HidesServerSideDetails(t *testing.T) {
	for _, err := range []error{
		domainerrors.ErrMalformedHash.WithDetails("bcrypt: hashedSecret too short"),
		domainerrors.NewDatabaseExecuteError(errors.New("dial tcp 10.0.0.5:5432"), "failed to create user"),
		errors.New("unexpected nil pointer"),
	} {
		rec, body := handle(t, err)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "INTERNAL_ERROR", body.Code)
		assert.Equal(t, "Internal server error", body.Detail)
		assert.NotContains(t, rec.Body.String(), "bcrypt")
		assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	}
}

func TestHandleHTTPError_EchoErrors(t *testing.T) {
	rec, body := handle(t, echo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "HTTP_ERROR", body.Code)
	assert.Equal(t, "Not Found", body.Detail)
}

func TestHandleHTTPError_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))).HandleHTTPError(errors.New("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
