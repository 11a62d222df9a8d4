package storage

import (
	"context"
	"io"
)

// FileUpload is an incoming file as received at the HTTP edge.
type FileUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}
