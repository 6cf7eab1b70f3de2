// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"slices"
	"strings"
	"time"

	"cyberauth/config"
	domainerrors "cyberauth/internal/domain/errors"
	"cyberauth/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// It holds only immutable configuration and is safe for concurrent use.
type jwtService struct {
	secret []byte                 // Shared HMAC key, loaded once at startup.
	method *jwt.SigningMethodHMAC // Fixed signing algorithm.
	ttl    time.Duration          // Default lifetime of issued tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	return newJWTService(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.AccessTokenTTL())
}

func newJWTService(secret, algorithm string, ttl time.Duration) (*jwtService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	algorithm = strings.ToUpper(algorithm)
	if !slices.Contains(config.SupportedJWTAlgorithms, algorithm) {
		return nil, errors.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, errors.Errorf("jwt algorithm %q is not an HMAC method", algorithm)
	}

	if ttl <= 0 {
		return nil, errors.Errorf("jwt lifetime must be positive, got %s", ttl)
	}

	return &jwtService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
	}, nil
}

// Issue creates a token carrying sub, iat and exp claims.
func (s *jwtService) Issue(subject string, issuedAt time.Time, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", domainerrors.ErrInvalidInput.WithDetails("token subject must not be empty")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	claims := jwt.RegisteredClaims{
		Subject:   subject,                                     // Subject (who the token is for)
		IssuedAt:  jwt.NewNumericDate(issuedAt),                // Issued At
		ExpiresAt: jwt.NewNumericDate(expiryOf(issuedAt, ttl)), // Expiration Time
	}

	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return token, nil
}

// Validate checks the signature, algorithm and expiry of tokenString as of now.
// A token is still valid at the exact instant of its exp claim.
func (s *jwtService) Validate(tokenString string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}

	// exp is compared below so a token stays valid at exactly its exp instant.
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", classifyTokenError(err)
	}

	if claims.ExpiresAt == nil {
		return "", domainerrors.ErrMalformedToken.WithDetails("token has no expiration")
	}
	if now.After(claims.ExpiresAt.Time) {
		return "", domainerrors.ErrTokenExpired.WithDetails("token expired at " + claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
	}

	if claims.Subject == "" {
		return "", domainerrors.ErrMalformedToken.WithDetails("token has no subject")
	}

	return claims.Subject, nil
}

// TokenTTL returns the configured default lifetime.
func (s *jwtService) TokenTTL() time.Duration {
	return s.ttl
}

// expiryOf returns issuedAt+ttl rounded up to the whole second, the precision of the exp claim.
func expiryOf(issuedAt time.Time, ttl time.Duration) time.Time {
	exp := issuedAt.Add(ttl)
	if whole := exp.Truncate(time.Second); whole.Before(exp) {
		return whole.Add(time.Second)
	}

	return exp
}

// classifyTokenError maps jwt's parse errors onto the token failure kinds.
// The signature is checked before expiry, so a forged token never reports as expired.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domainerrors.ErrMalformedToken.WithDetails(err.Error())
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domainerrors.ErrBadSignature.WithDetails(err.Error())
	case errors.Is(err, jwt.ErrTokenExpired):
		return domainerrors.ErrTokenExpired.WithDetails(err.Error())
	default:
		return domainerrors.ErrMalformedToken.WithDetails(err.Error())
	}
}
