package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/openblog/blog-api/internal/core/domain"
	"github.com/openblog/blog-api/internal/core/ports"
)

// Config captures the settings for the S3-compatible object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ProfileStore persists profile pictures in an S3-compatible bucket, one
// object per user keyed by the user id, so uploads replace earlier pictures.
type ProfileStore struct {
	client *minio.Client
	bucket string
}

// Connect initialises the object-store client and makes sure the bucket exists.
func Connect(ctx context.Context, cfg Config) (*ProfileStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage connect: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("storage bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("storage bucket create: %w", err)
		}
	}

	return &ProfileStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *ProfileStore) UploadProfilePicture(ctx context.Context, userID int64, contentType string, body io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey(userID), body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload profile picture: %w", err)
	}
	return nil
}

func (s *ProfileStore) GetProfilePicture(ctx context.Context, userID int64) (*ports.StoredFile, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(userID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get profile picture: %w", err)
	}

	// GetObject is lazy; Stat forces the first round trip and surfaces a
	// missing key.
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, domain.ErrPictureNotFound
		}
		return nil, fmt.Errorf("stat profile picture: %w", err)
	}

	return &ports.StoredFile{
		ContentType: stat.ContentType,
		Size:        stat.Size,
		Body:        obj,
	}, nil
}

func objectKey(userID int64) string {
	return fmt.Sprintf("user%d", userID)
}
