package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openblog/blog-api/internal/api/metrics"
	"github.com/openblog/blog-api/internal/core/domain"
)

const postCacheTTL = 5 * time.Minute

// PostCache is a read-through cache for posts backed by Redis.
// Key format: post:<id>
type PostCache struct {
	client *redis.Client
}

// NewPostCache creates a PostCache wrapping the given Redis client.
func NewPostCache(client *redis.Client) *PostCache {
	return &PostCache{client: client}
}

// Get returns the cached post, or nil, nil on a miss.
func (p *PostCache) Get(ctx context.Context, id int64) (*domain.Post, error) {
	raw, err := p.client.Get(ctx, p.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.PostCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("post cache get: %w", err)
	}

	var post domain.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil, fmt.Errorf("post cache decode: %w", err)
	}

	metrics.PostCacheTotal.WithLabelValues("hit").Inc()
	return &post, nil
}

// Set stores the post for postCacheTTL.
func (p *PostCache) Set(ctx context.Context, post *domain.Post) error {
	raw, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("post cache encode: %w", err)
	}
	if err := p.client.Set(ctx, p.key(post.ID), raw, postCacheTTL).Err(); err != nil {
		return fmt.Errorf("post cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached post after an update or delete.
func (p *PostCache) Invalidate(ctx context.Context, id int64) error {
	if err := p.client.Del(ctx, p.key(id)).Err(); err != nil {
		return fmt.Errorf("post cache invalidate: %w", err)
	}
	return nil
}

func (p *PostCache) key(id int64) string {
	return fmt.Sprintf("post:%d", id)
}
