// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"cyberauth/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new player.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

// LoginInput defines the data required for a player to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// AuthOutput is returned by both registration and login: a fresh access token plus the user.
type AuthOutput struct {
	Token string
	User  *entity.User
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	// Authenticate resolves a bearer token to the user it was issued for.
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}
