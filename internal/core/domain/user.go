package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRole        = errors.New("role must be ADMIN or USER")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrTokenInvalid       = errors.New("invalid or expired token")
	ErrInvalidSession     = errors.New("invalid session")
	ErrSamePassword       = errors.New("new password must be different from current")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
)

// ValidRole reports whether role is one of the two flat roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User models an account. PasswordHash never leaves the process.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenClaims is the decoded content of a verified identity token.
type TokenClaims struct {
	TokenID   string
	UserID    string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	User   *User
	Claims TokenClaims
}
