package ports

import (
	"context"
	"time"

	"github.com/notekeep/notes-system/internal/core/domain"
)

// PasswordHasher turns plaintext passwords into comparable digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext, digest string) bool
}

// TokenService issues and verifies signed, time-limited identity tokens.
type TokenService interface {
	Issue(userID, role string) (string, domain.TokenClaims, error)
	Verify(token string) (domain.TokenClaims, error)
}

// SessionStore tracks the last token issued to each user. A token is only
// honoured while its id is the current one.
type SessionStore interface {
	SetCurrent(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	IsCurrent(ctx context.Context, userID, tokenID string) (bool, error)
	Clear(ctx context.Context, userID string) error
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token    string
	Username string
	Role     string
	ID       string
}

// SessionInfo is returned by Verify.
type SessionInfo struct {
	Username string
	Role     string
	ID       string
}

// AuthService is the single place where credential and token logic meet.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Verify(ctx context.Context, token string) (*SessionInfo, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	Logout(ctx context.Context, userID string) error
	// Authenticate resolves a bearer token to the caller. It fails with
	// domain.ErrTokenInvalid for a bad, expired or revoked token and with
	// domain.ErrInvalidSession when the user is gone or deactivated.
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}
