package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/notekeep/notes-system/internal/core/domain"
	"github.com/notekeep/notes-system/internal/core/ports"
)

// dummyPassword is hashed once so that logins for unknown usernames spend
// the same hashing time as logins for known ones.
const dummyPassword = "notes-system/no-such-user"

// AuthService implements registration, login, token verification,
// password change and logout.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	sessions ports.SessionStore
	audit    ports.AuditRecorder
	log      zerolog.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	sessions ports.SessionStore,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = noopRecorder{}
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
		audit:    audit,
		log:      log,
	}
}

// Register creates a USER account. It never logs the caller in.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, domain.NewValidationError("username and password are required")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			s.record(domain.AuditEvent{Action: domain.AuditRegister, Username: username, Reason: "username_taken"})
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.record(domain.AuditEvent{Action: domain.AuditRegister, UserID: created.ID, Username: created.Username, Success: true})
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login checks the credentials and issues a token. Unknown usernames,
// wrong passwords and deactivated accounts fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.NewValidationError("username and password required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		s.hasher.Matches(password, s.dummy())
		s.loginFailed(username, "", "unknown_user")
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Matches(password, user.PasswordHash) {
		s.loginFailed(username, user.ID, "wrong_password")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.loginFailed(username, user.ID, "inactive")
		return nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := s.sessions.SetCurrent(ctx, user.ID, claims.TokenID, claims.ExpiresAt.Sub(claims.IssuedAt)); err != nil {
		return nil, fmt.Errorf("login: store session: %w", err)
	}

	s.record(domain.AuditEvent{Action: domain.AuditLogin, UserID: user.ID, Username: user.Username, Success: true})
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user logged in")

	return &ports.LoginResult{
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
		ID:       user.ID,
	}, nil
}

// Authenticate resolves token to the user it was issued to.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	current, err := s.sessions.IsCurrent(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("authenticate: check session: %w", err)
	}
	if !current {
		return nil, fmt.Errorf("%w: token is not the current session", domain.ErrTokenInvalid)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidSession
	}

	return &domain.Identity{User: user, Claims: claims}, nil
}

// Verify reports who a token belongs to. Every token or session failure
// collapses to domain.ErrUnauthorized.
func (s *AuthService) Verify(ctx context.Context, token string) (*ports.SessionInfo, error) {
	identity, err := s.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrInvalidSession) {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		return nil, err
	}

	return &ports.SessionInfo{
		Username: identity.User.Username,
		Role:     identity.User.Role,
		ID:       identity.User.ID,
	}, nil
}

// ChangePassword replaces the stored digest after checking the current
// password. The outstanding session stays valid.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.NewValidationError("all fields are required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if !s.hasher.Matches(currentPassword, user.PasswordHash) {
		s.record(domain.AuditEvent{Action: domain.AuditChangePassword, UserID: user.ID, Username: user.Username, Reason: "incorrect_password"})
		return domain.ErrIncorrectPassword
	}
	if s.hasher.Matches(newPassword, user.PasswordHash) {
		return domain.ErrSamePassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.record(domain.AuditEvent{Action: domain.AuditChangePassword, UserID: user.ID, Username: user.Username, Success: true})
	s.log.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}

// Logout drops the user's current session; the outstanding token stops
// verifying immediately.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Clear(ctx, userID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.record(domain.AuditEvent{Action: domain.AuditLogout, UserID: userID, Success: true})
	return nil
}

func (s *AuthService) loginFailed(username, userID, reason string) {
	s.record(domain.AuditEvent{Action: domain.AuditLogin, UserID: userID, Username: username, Reason: reason})
	s.log.Warn().Str("username", username).Str("reason", reason).Msg("login failed")
}

func (s *AuthService) record(event domain.AuditEvent) {
	s.audit.Record(event)
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.hasher.Hash(dummyPassword)
	})
	return s.dummyDigest
}

type noopRecorder struct{}

func (noopRecorder) Record(domain.AuditEvent) {}
