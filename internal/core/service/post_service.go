package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/openblog/blog-api/internal/core/domain"
	"github.com/openblog/blog-api/internal/core/ports"
)

// PostCache abstracts the read-through cache consulted on Get and invalidated
// on writes (Redis). A nil, nil return from Get means cache miss. Cache
// failures are never fatal to the request.
type PostCache interface {
	Get(ctx context.Context, id int64) (*domain.Post, error)
	Set(ctx context.Context, post *domain.Post) error
	Invalidate(ctx context.Context, id int64) error
}

// PostService implements post CRUD with the ownership gate applied after the
// target post is loaded.
type PostService struct {
	repo  ports.PostRepository
	cache PostCache
	log   zerolog.Logger
}

func NewPostService(repo ports.PostRepository, cache PostCache, log zerolog.Logger) *PostService {
	return &PostService{repo: repo, cache: cache, log: log}
}

// Create persists a post authored by the acting identity. The author id comes
// from the verified token claims, never from the request body, and CreatedAt
// is fixed at creation time.
func (s *PostService) Create(ctx context.Context, actor ports.Claims, title, content string) (*domain.Post, error) {
	if err := domain.ValidateNewPost(title, content, actor.UserID); err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		UserID:    actor.UserID,
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", actor.UserID).Msg("failed to create post")
		return nil, err
	}

	s.cacheSet(ctx, created)
	s.log.Info().Int64("post_id", created.ID).Int64("user_id", actor.UserID).Msg("post created")
	return created, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Int64("post_id", id).Msg("post cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, post)
	return post, nil
}

// Update changes title and content only; id, author, and creation time are
// immutable. The actor must be the post's author or an administrator.
func (s *PostService) Update(ctx context.Context, actor ports.Claims, id int64, title, content string) (*domain.Post, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != actor.UserID && actor.RoleID != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if err := domain.ValidateNewPost(title, content, post.UserID); err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return nil, err
	}

	s.cacheInvalidate(ctx, id)
	s.log.Info().Int64("post_id", id).Int64("actor_id", actor.UserID).Msg("post updated")
	return updated, nil
}

// Delete removes a post after the ownership gate. Deleting an already-deleted
// id yields ErrPostNotFound, every time.
func (s *PostService) Delete(ctx context.Context, actor ports.Claims, id int64) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != actor.UserID && actor.RoleID != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cacheInvalidate(ctx, id)
	s.log.Info().Int64("post_id", id).Int64("actor_id", actor.UserID).Msg("post deleted")
	return nil
}

func (s *PostService) cacheSet(ctx context.Context, post *domain.Post) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, post); err != nil {
		s.log.Warn().Err(err).Int64("post_id", post.ID).Msg("failed to write post cache")
	}
}

func (s *PostService) cacheInvalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("post_id", id).Msg("failed to invalidate post cache")
	}
}
