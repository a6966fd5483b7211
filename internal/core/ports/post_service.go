package ports

import (
	"context"

	"github.com/openblog/blog-api/internal/core/domain"
)

// PostService orchestrates post operations. The actor claims come from the
// verified token; ownership of the target post is checked against them after
// the post is loaded.
type PostService interface {
	Create(ctx context.Context, actor Claims, title, content string) (*domain.Post, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	Update(ctx context.Context, actor Claims, id int64, title, content string) (*domain.Post, error)
	Delete(ctx context.Context, actor Claims, id int64) error
}
