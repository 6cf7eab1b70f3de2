// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"cyberauth/config"
	domainerrors "cyberauth/internal/domain/errors"
	"cyberauth/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
// bcrypt draws a fresh 16-byte salt per call and embeds salt and cost in its output,
// and CompareHashAndPassword compares the final digest in constant time.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher is the constructor for bcryptHasher, reading the cost from configuration.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost != 0 {
		cost = cfg.Auth.BcryptCost
	}

	return NewBcryptHasherWithCost(cost)
}

// NewBcryptHasherWithCost builds a hasher with an explicit work factor.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", domainerrors.ErrInvalidInput.WithDetails("password must not be empty")
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domainerrors.ErrInvalidInput.WithDetails("password must not exceed 72 bytes")
		}

		return "", errors.Wrap(err, "bcrypt generate")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
// Only bcrypt's mismatch error means "wrong password"; every other failure means the
// stored hash is not one we produced.
func (h *bcryptHasher) Check(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, domainerrors.ErrMalformedHash.WithDetails(err.Error())
	}
}
