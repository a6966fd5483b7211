package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openblog/blog-api/internal/core/domain"
)

const postsCollection = "posts"

// MongoPostRepository persists posts with integer ids allocated from the
// counters collection.
type MongoPostRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{db: db, coll: db.Collection(postsCollection)}
}

type mongoPost struct {
	ID        int64  `bson:"_id"`
	Title     string `bson:"title"`
	Content   string `bson:"content"`
	CreatedAt int64  `bson:"created_at"`
	UserID    int64  `bson:"user_id"`
}

func (r *MongoPostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	id, err := nextSequence(ctx, r.db, postsCollection)
	if err != nil {
		return nil, err
	}

	doc := mongoPost{
		ID:        id,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt.Unix(),
		UserID:    post.UserID,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	created := *post
	created.ID = id
	return &created, nil
}

func (r *MongoPostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	var mp mongoPost
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	return &domain.Post{
		ID:        mp.ID,
		Title:     mp.Title,
		Content:   mp.Content,
		CreatedAt: unixToTime(mp.CreatedAt),
		UserID:    mp.UserID,
	}, nil
}

// Update rewrites title and content only; created_at and user_id are
// immutable once persisted.
func (r *MongoPostRepository) Update(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	update := bson.M{"$set": bson.M{
		"title":   post.Title,
		"content": post.Content,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrPostNotFound
	}

	updated := *post
	return &updated, nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}
