package models

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	id "qrgen/pkg/domain"
	dErrors "qrgen/pkg/domain-errors"
)

// bcrypt ignores input past 72 bytes, so longer passwords are refused.
const maxPasswordBytes = 72

// User is a registered account. Records are never mutated after creation.
type User struct {
	ID           id.UserID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate trims names, normalizes the email and checks required fields.
func (r *RegisterRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = NormalizeEmail(r.Email)

	if r.FirstName == "" || r.LastName == "" {
		return dErrors.New(dErrors.CodeValidation, "First name and last name are required")
	}
	if !govalidator.StringLength(r.FirstName, "1", "100") || !govalidator.StringLength(r.LastName, "1", "100") {
		return dErrors.New(dErrors.CodeValidation, "Name is too long")
	}
	if err := validateCredentials(r.Email, r.Password); err != nil {
		return err
	}
	if !govalidator.StringLength(r.Password, "1", "200") || len(r.Password) > maxPasswordBytes {
		return dErrors.New(dErrors.CodeValidation, "Password must be at most 72 bytes")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate normalizes the email and checks both fields are present.
func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	return validateCredentials(r.Email, r.Password)
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return dErrors.New(dErrors.CodeValidation, "Email and password are required")
	}
	if !govalidator.StringLength(email, "3", "255") || !govalidator.IsEmail(email) {
		return dErrors.New(dErrors.CodeValidation, "Invalid email address")
	}
	return nil
}

// AuthResult is returned by successful signup and login.
type AuthResult struct {
	UserID id.UserID
	Token  string
}

// AuthResponse is the wire body for signup and login.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
