package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

var ErrValidation = errors.New("missing or invalid input")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrEmailTaken = errors.New("email already registered")
var ErrPhoneTaken = errors.New("phone number already registered")
var ErrUserNotFound = errors.New("user not found")
var ErrUnauthenticated = errors.New("authentication required")

// User models a registered identity: a citizen reporting issues or an
// administrator triaging them.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Location     string     `json:"location,omitempty"`
	Address      string     `json:"address,omitempty"`
	DepartmentID int        `json:"department_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// Sanitized returns a copy of the user with all password material removed.
// Every user that leaves the credential service goes through this.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail lowercases and trims an email address. Emails are unique
// case-insensitively, so every lookup and every stored value uses this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
