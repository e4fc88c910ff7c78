package ports

import (
	"context"

	"github.com/notekeep/notes-system/internal/core/domain"
)

// UserRepository is the credential store. Username uniqueness is enforced
// by the store itself: Create returns domain.ErrUsernameTaken on collision.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update persists role, active flag and password hash. The username is
	// immutable and ignored.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
