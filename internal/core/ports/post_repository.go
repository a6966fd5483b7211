package ports

import (
	"context"

	"github.com/openblog/blog-api/internal/core/domain"
)

// PostRepository defines the persistence contract for posts. Absent posts are
// signalled with domain.ErrPostNotFound.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id int64) error
}
