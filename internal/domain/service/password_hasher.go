// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted, self-describing hash from a plaintext password.
	// An empty password yields domainerrors.ErrInvalidInput.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	// A mismatch is (false, nil); a hash that was not produced by Hash yields
	// domainerrors.ErrMalformedHash so corruption is never reported as a wrong password.
	Check(password, hash string) (bool, error)
}
