package handler

import (
	"net/http"

	"cyberauth/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

// Banner answers GET / so a browser or load balancer can see the API is up.
func Banner(c echo.Context) error {
	return response.Message(c, http.StatusOK, "Cybersecurity Game API is running!")
}

// HealthCheck answers GET /health.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
