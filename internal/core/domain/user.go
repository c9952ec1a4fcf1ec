package domain

import (
	"strings"
	"time"
)

// Role determines the authorization scope of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// InactivityWindow is how long a user may go without logging in before being
// reported as inactive.
const InactivityWindow = 30 * 24 * time.Hour

// User models an account in the credential store.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	LastLoginAt  *time.Time `json:"lastLoginAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Sanitized returns a copy of u with the password hash cleared.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	if u.LastLoginAt != nil {
		ts := *u.LastLoginAt
		clone.LastLoginAt = &ts
	}
	return &clone
}

// IsInactive reports whether the user has not logged in since cutoff.
func (u *User) IsInactive(cutoff time.Time) bool {
	return u.LastLoginAt == nil || u.LastLoginAt.Before(cutoff)
}

// NormalizeEmail trims and lower-cases an address so uniqueness checks are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
