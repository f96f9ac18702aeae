package content

import (
	"context"
	"time"
)

// ObjectInfo is what the store reports for an uploaded object
type ObjectInfo struct {
	SizeBytes   int64
	ContentType string
}

// ObjectStorage is the media library's blob store. Uploads go straight from
// the browser to the store through presigned URLs.
type ObjectStorage interface {
	// GenerateUploadURL presigns a PUT for storageKey that only accepts a
	// body of exactly sizeBytes sent as contentType
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, sizeBytes int64, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL presigns a GET for storageKey
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// StatObject describes the uploaded object; found is false when nothing
	// was uploaded
	StatObject(ctx context.Context, storageKey string) (info ObjectInfo, found bool, err error)

	// DeleteObject removes the object; missing objects are not an error
	DeleteObject(ctx context.Context, storageKey string) error
}
