// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"cyberauth/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their store-assigned ID.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByEmail retrieves a single user by their normalised email address.
	// It returns ErrUserNotFound when no record matches.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user, filling in ID and CreatedAt.
	// A duplicate email is reported as domainerrors.ErrDuplicateEmail.
	Create(ctx context.Context, user *entity.User) error
}
