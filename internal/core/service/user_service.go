package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/notekeep/notes-system/internal/core/domain"
	"github.com/notekeep/notes-system/internal/core/ports"
)

type userService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	sessions ports.SessionStore
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

// NewUserService returns the administrative UserService.
func NewUserService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	sessions ports.SessionStore,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) ports.UserService {
	if audit == nil {
		audit = noopRecorder{}
	}
	return &userService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		audit:    audit,
		log:      log,
	}
}

// CreateUser creates an account with an explicit role. An empty role
// means USER.
func (s *userService) CreateUser(ctx context.Context, actorID string, in ports.CreateUserInput) (*domain.User, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, domain.NewValidationError("username and password are required")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.audit.Record(domain.AuditEvent{Action: domain.AuditUserCreated, UserID: user.ID, Username: user.Username, ActorID: actorID, Success: true})
	s.log.Info().Str("actor_id", actorID).Str("user_id", user.ID).Str("role", role).Msg("user created")
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of in. Changing the role,
// deactivating the account or resetting another user's password ends that
// user's current session.
func (s *userService) UpdateUser(ctx context.Context, actorID, id string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	endSession := false
	if in.Role != nil {
		if !domain.ValidRole(*in.Role) {
			return nil, domain.ErrInvalidRole
		}
		if *in.Role != user.Role {
			if actorID == id {
				return nil, domain.NewValidationError("administrators cannot change their own role")
			}
			user.Role = *in.Role
			endSession = true
		}
	}
	if in.IsActive != nil && *in.IsActive != user.IsActive {
		if !*in.IsActive && actorID == id {
			return nil, domain.NewValidationError("administrators cannot deactivate their own account")
		}
		user.IsActive = *in.IsActive
		endSession = endSession || !user.IsActive
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, domain.NewValidationError("password must not be empty")
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		user.PasswordHash = hash
		endSession = endSession || actorID != id
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if endSession {
		if err := s.sessions.Clear(ctx, id); err != nil {
			return nil, fmt.Errorf("update user: clear session: %w", err)
		}
	}

	s.audit.Record(domain.AuditEvent{Action: domain.AuditUserUpdated, UserID: updated.ID, Username: updated.Username, ActorID: actorID, Success: true})
	s.log.Info().Str("actor_id", actorID).Str("user_id", id).Msg("user updated")
	return updated, nil
}

// DeactivateUser soft-deletes an account and revokes its session.
func (s *userService) DeactivateUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.NewValidationError("administrators cannot deactivate their own account")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	if user.IsActive {
		user.IsActive = false
		user.UpdatedAt = time.Now().UTC()
		if _, err := s.users.Update(ctx, user); err != nil {
			return fmt.Errorf("deactivate user: %w", err)
		}
	}
	if err := s.sessions.Clear(ctx, id); err != nil {
		return fmt.Errorf("deactivate user: clear session: %w", err)
	}

	s.audit.Record(domain.AuditEvent{Action: domain.AuditUserDisabled, UserID: user.ID, Username: user.Username, ActorID: actorID, Success: true})
	s.log.Info().Str("actor_id", actorID).Str("user_id", id).Msg("user deactivated")
	return nil
}

// EnsureAdmin makes sure username exists as an active ADMIN. An existing
// account is promoted and reactivated; its password is left alone.
func (s *userService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return domain.NewValidationError("bootstrap admin username and password are required")
	}

	existing, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Role == domain.RoleAdmin && existing.IsActive {
			s.log.Debug().Str("username", username).Msg("bootstrap admin already present")
			return nil
		}
		existing.Role = domain.RoleAdmin
		existing.IsActive = true
		existing.UpdatedAt = time.Now().UTC()
		if _, err := s.users.Update(ctx, existing); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		s.log.Info().Str("username", username).Msg("bootstrap admin promoted")
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("ensure admin: %w", err)
	}

	_, err = s.CreateUser(ctx, "", ports.CreateUserInput{Username: username, Password: password, Role: domain.RoleAdmin})
	if errors.Is(err, domain.ErrUsernameTaken) {
		// created concurrently by another instance
		return nil
	}
	return err
}
