package ports

import (
	"context"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

// UserRepository defines the interface for account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update replaces the stored account; ErrUserNotFound when absent and
	// ErrUserExists when the new username collides.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
