// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"
)

// NameMaxLength is the longest display name accepted at registration.
const NameMaxLength = 100

// User is the identity record of a player. It is created once at registration and
// is never mutated afterwards by this service.
type User struct {
	ID           string    // Store-assigned identifier (UUID for SQL and memory stores, ObjectID hex for Mongo).
	Name         string    // Display name, 1..100 characters.
	Email        string    // Login identifier, unique across users, stored normalised.
	PasswordHash string    // Self-describing bcrypt hash; the plaintext is never stored.
	Role         Role      // Player profile chosen at registration.
	CreatedAt    time.Time // Timestamp of when this user account was created.
}

// PublicUser is the subset of User fields that may leave the service.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Public strips the credential fields.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// NormalizeEmail trims and lower-cases an address so lookups and the unique index agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
