package service

import (
	"time"
)

// TokenService issues and validates stateless bearer tokens whose subject is the user's email.
type TokenService interface {
	// Issue creates a signed token for subject that expires at issuedAt+ttl.
	// A non-positive ttl falls back to the configured default lifetime.
	Issue(subject string, issuedAt time.Time, ttl time.Duration) (string, error)

	// Validate verifies token as of now and returns its subject.
	// Failures are domainerrors.ErrTokenExpired, ErrBadSignature or ErrMalformedToken.
	Validate(token string, now time.Time) (string, error)

	// TokenTTL returns the configured default token lifetime.
	TokenTTL() time.Duration
}
