package storage

import (
	"context"
	"io"
)

// Upload is an image received with a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.ReadCloser
}

// Close releases the underlying file. It is safe on a nil upload.
func (u *Upload) Close() error {
	if u == nil || u.Reader == nil {
		return nil
	}
	return u.Reader.Close()
}

type StoredImage struct {
	URL      string
	PublicID string
}

type ImageStore interface {
	Upload(ctx context.Context, folder string, file *Upload) (*StoredImage, error)
	Delete(ctx context.Context, publicID string) error
}
