package port

import (
	"context"
	"io"
)

// ObjectStorage persists generated artifacts (quotation workbooks, raw
// source files) in a bucket.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// PresignDownload returns a time-limited URL for fetching key.
	PresignDownload(ctx context.Context, key string, expirySeconds int64) (string, error)
}
