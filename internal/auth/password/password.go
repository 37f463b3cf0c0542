// Package password hashes and verifies account passwords with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "qrgen/pkg/domain-errors"
)

// MinCost is the lowest bcrypt cost accepted for stored passwords.
const MinCost = 10

// Hash creates a bcrypt hash of the password. Costs below MinCost are raised.
func Hash(password string, cost int) (string, error) {
	if password == "" {
		return "", dErrors.New(dErrors.CodeValidation, "Password is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), max(cost, MinCost))
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "Password must be at most 72 bytes")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash. A mismatch is reported as
// CodeUnauthorized; a corrupt hash is an internal error.
func Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return dErrors.New(dErrors.CodeUnauthorized, "Invalid credentials.")
		}
		return fmt.Errorf("could not verify password: %w", err)
	}
	return nil
}
