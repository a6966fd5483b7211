package ports

import (
	"context"

	"github.com/openblog/blog-api/internal/core/domain"
)

// UpdateUserInput carries a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	RoleID   *int
}

type UserService interface {
	SignUp(ctx context.Context, name, email, password string) (*domain.User, error)
	CreateAdmin(ctx context.Context, name, email, password string, roleID int) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (string, *domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, actor Claims, id int64, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor Claims, id int64) error
}
