package domain

import (
	"net/mail"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
)

// Role is the access level assigned to a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleHD    Role = "hd"
	RoleGuest Role = "guest"
)

// IsValidRole reports whether r is a recognized role.
func IsValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleHD || r == RoleGuest
}

// Password validation constants
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxFullNameLength = 255
	MaxEmailLength    = 255
)

type User struct {
	ID             uuid.UUID
	FullName       string
	Email          string
	HashedPassword string
	Role           Role
	IsActive       bool
	CreatedAt      time.Time
	LastActiveAt   *time.Time
}

// UserSummary is the admin-facing projection of a user.
type UserSummary struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	LastActiveAt *time.Time
}

// ValidatePassword checks if a password meets security requirements.
// Returns a slice of error messages (empty if valid).
func ValidatePassword(password string) []string {
	var errors []string

	if len(password) < MinPasswordLength {
		errors = append(errors, "Password must be at least 8 characters long")
	}
	if len(password) > MaxPasswordLength {
		errors = append(errors, "Password must be 128 characters or less")
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		errors = append(errors, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		errors = append(errors, "Password must contain at least one lowercase letter")
	}
	if !hasNumber {
		errors = append(errors, "Password must contain at least one number")
	}

	return errors
}

// IsValidEmail validates email format.
func IsValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// CheckPassword verifies if the provided password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
	return err == nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	if errs := ValidatePassword(password); len(errs) > 0 {
		return "", apperrors.ErrPasswordTooWeak
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// UserInfo is a lightweight projection used for creator-name resolution.
type UserInfo struct {
	ID       uuid.UUID
	FullName string
	Email    string
}
