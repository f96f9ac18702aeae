package storage

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	contentapp "github.com/gbpdash/backend/internal/application/content"
)

var _ contentapp.ObjectStorage = (*DevObjectStorage)(nil)

// DevObjectStorage backs the media library when no bucket is configured.
// A presigned key counts as uploaded with its declared size and type until
// it is deleted, so the upload confirmation flow can be exercised locally.
type DevObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]contentapp.ObjectInfo
}

// NewDevObjectStorage creates a DevObjectStorage rooted at baseURL
func NewDevObjectStorage(baseURL string) *DevObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/dev-storage"
	}
	return &DevObjectStorage{BaseURL: baseURL, objects: make(map[string]contentapp.ObjectInfo)}
}

func (s *DevObjectStorage) GenerateUploadURL(_ context.Context, storageKey, contentType string, sizeBytes int64, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrStorageKeyRequired
	}
	if sizeBytes <= 0 {
		return "", time.Time{}, ErrObjectSizeRequired
	}
	s.mu.Lock()
	s.objects[storageKey] = contentapp.ObjectInfo{SizeBytes: sizeBytes, ContentType: contentType}
	s.mu.Unlock()

	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{
		"expires":        {expiresAt.UTC().Format(time.RFC3339)},
		"content_type":   {contentType},
		"content_length": {strconv.FormatInt(sizeBytes, 10)},
	}
	return s.BaseURL + "/upload/" + storageKey + "?" + q.Encode(), expiresAt, nil
}

func (s *DevObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrStorageKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{"expires": {expiresAt.UTC().Format(time.RFC3339)}}
	return s.BaseURL + "/download/" + storageKey + "?" + q.Encode(), expiresAt, nil
}

func (s *DevObjectStorage) StatObject(_ context.Context, storageKey string) (contentapp.ObjectInfo, bool, error) {
	if storageKey == "" {
		return contentapp.ObjectInfo{}, false, ErrStorageKeyRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.objects[storageKey]
	return info, ok, nil
}

func (s *DevObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrStorageKeyRequired
	}
	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()
	return nil
}
