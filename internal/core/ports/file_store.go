package ports

import (
	"context"
	"io"
)

// StoredFile is an object streamed back from the file store. The caller owns
// Body and must close it.
type StoredFile struct {
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// FileStore persists profile pictures in object storage, one object per user.
// A missing picture is signalled with domain.ErrPictureNotFound.
type FileStore interface {
	UploadProfilePicture(ctx context.Context, userID int64, contentType string, body io.Reader, size int64) error
	GetProfilePicture(ctx context.Context, userID int64) (*StoredFile, error)
}
