package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	contentapp "github.com/gbpdash/backend/internal/application/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevObjectStorage_URLs(t *testing.T) {
	s := NewDevObjectStorage("")
	ctx := context.Background()

	up, expiresAt, err := s.GenerateUploadURL(ctx, "tenants/t1/a.jpg", "image/jpeg", 2048, 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up, "http://localhost:8080/dev-storage/upload/tenants/t1/a.jpg?"))
	assert.Contains(t, up, "content_type=image%2Fjpeg")
	assert.Contains(t, up, "content_length=2048")
	assert.True(t, expiresAt.After(time.Now()))

	down, _, err := s.GenerateDownloadURL(ctx, "tenants/t1/a.jpg", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, down, "/download/tenants/t1/a.jpg?expires=")

	_, _, err = s.GenerateUploadURL(ctx, "", "image/jpeg", 1, time.Minute)
	assert.ErrorIs(t, err, ErrStorageKeyRequired)
	_, _, err = s.GenerateUploadURL(ctx, "k", "image/jpeg", 0, time.Minute)
	assert.ErrorIs(t, err, ErrObjectSizeRequired)
	_, _, err = s.GenerateDownloadURL(ctx, "", time.Minute)
	assert.ErrorIs(t, err, ErrStorageKeyRequired)
}

func TestDevObjectStorage_StatAndDelete(t *testing.T) {
	s := NewDevObjectStorage("https://dev.example.com")
	ctx := context.Background()

	_, found, err := s.StatObject(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "nothing was presigned")

	_, _, err = s.GenerateUploadURL(ctx, "k", "image/png", 512, time.Minute)
	require.NoError(t, err)
	info, found, err := s.StatObject(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, contentapp.ObjectInfo{SizeBytes: 512, ContentType: "image/png"}, info)

	require.NoError(t, s.DeleteObject(ctx, "k"))
	_, found, err = s.StatObject(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	assert.ErrorIs(t, s.DeleteObject(ctx, ""), ErrStorageKeyRequired)
	_, _, err = s.StatObject(ctx, "")
	assert.ErrorIs(t, err, ErrStorageKeyRequired)
}
