package bookstore

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SeedPasswordHash is a precomputed bcrypt hash.
// It is a fixture for local and test environments and must never be provisioned anywhere real.
const SeedPasswordHash = "$2b$12$LQv3c1yqBWVHxkd0LHAkCOYz6TtxMQJqhN8/LewY5GyYfQYe0G1Zu"

// SeedUsername is the username of the seed user.
const SeedUsername = "testuser"

// SeedUser returns a fresh copy of the seed user record.
func SeedUser() *User {
	return &User{
		FirstName:    "Test",
		LastName:     "User",
		DateOfBirth:  "1990-01-01",
		Username:     SeedUsername,
		PasswordHash: SeedPasswordHash,
	}
}

// ValidateSeed checks that a user is fit to be inserted as a seed record.
// The password hash is opaque apart from having to parse as bcrypt.
func ValidateSeed(user *User) error {
	if user == nil {
		return fmt.Errorf("no seed user")
	}
	if user.Username == "" {
		return fmt.Errorf("seed user has no username")
	}
	if _, err := bcrypt.Cost([]byte(user.PasswordHash)); err != nil {
		return fmt.Errorf("seed user %s password hash: %w", user.Username, err)
	}

	return nil
}
