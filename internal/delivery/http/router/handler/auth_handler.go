// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"cyberauth/internal/delivery/http/middleware"
	"cyberauth/internal/delivery/http/response"
	"cyberauth/internal/domain/entity"
	domainerrors "cyberauth/internal/domain/errors"
	"cyberauth/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,user_role"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler holds dependencies for registration and login.
type AuthHandler struct {
	uc usecase.UserUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.UserUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register handles the user registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Auth(c, http.StatusCreated, "User registered successfully", output.Token, output.User.Public())
}

// Login handles the user login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Auth(c, http.StatusOK, "Login successful", output.Token, output.User.Public())
}

// Me returns the user authenticated by the bearer token.
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return domainerrors.ErrMalformedToken.WithDetails("no authenticated user on request")
	}

	return response.User(c, user.Public())
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge {
			return err
		}

		return domainerrors.ErrValidationFailed.WithDetails("request body is not valid JSON")
	}

	return c.Validate(req)
}
