package port

import (
	"context"
	"io"
	"landmark-service/internal/core/domain"
)

// StoredBlob describes an object written to the blob store.
type StoredBlob struct {
	FileID      string
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// BlobStoragePort is the image store.
type BlobStoragePort interface {
	// Upload writes img under key. When progress is not nil it receives updates while
	// bytes are written; the caller owns the channel and closes it.
	Upload(ctx context.Context, key string, img domain.ImageUpload, progress chan<- domain.UploadProgress) (*StoredBlob, error)
	// Delete removes the blob behind a public url. Unknown urls are ignored.
	Delete(ctx context.Context, url string) error
	Open(ctx context.Context, fileID string) (io.ReadCloser, *StoredBlob, error)
}
