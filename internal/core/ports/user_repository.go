package ports

import (
	"context"

	"github.com/openblog/blog-api/internal/core/domain"
)

// UserRepository defines the persistence contract for users. Implementations
// signal absent users with domain.ErrUserNotFound and unique-email conflicts
// with domain.ErrEmailExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	ValidatePassword(ctx context.Context, email, password string) (bool, error)
}
