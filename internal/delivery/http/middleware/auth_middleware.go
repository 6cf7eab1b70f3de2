package middleware

import (
	"strings"

	"cyberauth/internal/domain/entity"
	domainerrors "cyberauth/internal/domain/errors"
	"cyberauth/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ContextKeyUser is the echo.Context key holding the authenticated *entity.User.
const ContextKeyUser = "user"

const bearerPrefix = "Bearer "

// AuthMiddleware validates bearer tokens and loads the user they were issued for.
type AuthMiddleware struct {
	uc usecase.UserUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(uc usecase.UserUsecase) *AuthMiddleware {
	return &AuthMiddleware{uc: uc}
}

// Authenticate rejects the request unless it carries a valid, unexpired access token.
// Failures are returned to the error handler, which answers 401 with the token failure kind.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrMalformedToken.WithDetails("authorization header is missing")
		}

		if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			return domainerrors.ErrMalformedToken.WithDetails("authorization header must use the Bearer scheme")
		}
		token := strings.TrimSpace(authHeader[len(bearerPrefix):])

		user, err := m.uc.Authenticate(c.Request().Context(), token)
		if err != nil {
			return errors.WithStack(err)
		}

		c.Set(ContextKeyUser, user)

		return next(c)
	}
}

// CurrentUser returns the user stored by Authenticate.
func CurrentUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(ContextKeyUser).(*entity.User)

	return user, ok && user != nil
}
