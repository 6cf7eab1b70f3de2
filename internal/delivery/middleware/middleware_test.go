package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cyberauth/config"
	deliverycontext "cyberauth/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger() (*bytes.Buffer, *slog.Logger) {
	buf := &bytes.Buffer{}

	return buf, slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRequestIDMiddleware(t *testing.T) {
	_, logger := newBufferLogger()
	mw := NewRequestIDMiddleware(logger)
	e := echo.New()

	tests := []struct {
		name     string
		header   string
		wantKeep bool
	}{
		{name: "client id kept", header: "client-abc-123", wantKeep: true},
		{name: "missing id generated", header: "", wantKeep: false},
		{name: "id with spaces replaced", header: "bad id", wantKeep: false},
		{name: "oversized id replaced", header: strings.Repeat("x", maxRequestIDLength+1), wantKeep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(deliverycontext.HeaderXRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seenID string
			var seenLogger *slog.Logger
			err := mw.Process(func(c echo.Context) error {
				seenID = deliverycontext.GetRequestIDFromContext(c.Request().Context())
				seenLogger = deliverycontext.GetLogger(c.Request().Context())

				return nil
			})(c)
			require.NoError(t, err)

			assert.NotEmpty(t, seenID)
			assert.NotNil(t, seenLogger)
			assert.Equal(t, seenID, rec.Header().Get(deliverycontext.HeaderXRequestID))
			assert.Equal(t, seenID, deliverycontext.GetRequestID(c))
			if tt.wantKeep {
				assert.Equal(t, tt.header, seenID)
			} else {
				assert.NotEqual(t, tt.header, seenID)
			}
		})
	}
}

func TestLoggerMiddleware_LogsRenderedStatus(t *testing.T) {
	buf, logger := newBufferLogger()
	mw := NewLoggerMiddleware(logger, &config.Config{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login?x=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw.Handle(func(echo.Context) error {
		return echo.NewHTTPError(http.StatusUnauthorized, "nope")
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, buf.String(), `"status":401`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"query":"x=1"`)
}

func TestLoggerMiddleware_SkipsProbesOutsideDebug(t *testing.T) {
	buf, logger := newBufferLogger()
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	quiet := NewLoggerMiddleware(logger, &config.Config{})
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), httptest.NewRecorder())
	require.NoError(t, quiet.Handle(ok)(c))
	assert.Empty(t, buf.String())

	debugCfg := &config.Config{}
	debugCfg.Env.Debug = true
	verbose := NewLoggerMiddleware(logger, debugCfg)
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), httptest.NewRecorder())
	require.NoError(t, verbose.Handle(ok)(c))
	assert.Contains(t, buf.String(), `"msg":"HTTP Request"`)
}
