package ports

import (
	"context"

	"github.com/notekeep/notes-system/internal/core/domain"
)

// CreateUserInput is used by administrators to create accounts.
type CreateUserInput struct {
	Username string
	Password string
	Role     string
}

// UpdateUserInput carries optional changes; nil fields are left untouched.
type UpdateUserInput struct {
	Role     *string
	IsActive *bool
	Password *string
}

// UserService defines administrative user management. actorID is the
// administrator performing the call.
type UserService interface {
	CreateUser(ctx context.Context, actorID string, in CreateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, actorID, id string, in UpdateUserInput) (*domain.User, error)
	DeactivateUser(ctx context.Context, actorID, id string) error
	EnsureAdmin(ctx context.Context, username, password string) error
}
