package content

import (
	"strings"
	"testing"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("image/jpeg", 1024))
	assert.NoError(t, ValidateUpload("IMAGE/PNG", MaxImageSize))
	assert.NoError(t, ValidateUpload("video/mp4", MaxVideoSize))
	assert.Error(t, ValidateUpload("image/png", MaxImageSize+1))
	assert.Error(t, ValidateUpload("image/gif", 10))
	assert.Error(t, ValidateUpload("video/mp4", 0))
}

func TestNewMedia(t *testing.T) {
	tenantID, locationID := uuid.New(), uuid.New()
	m, err := NewMedia(tenantID, locationID, "Façade Été.JPG", "image/jpeg", 2048, "")
	require.NoError(t, err)

	assert.Equal(t, MediaStatusPending, m.Status)
	assert.Equal(t, CategoryAdditional, m.Category)
	assert.Equal(t, "PHOTO", m.MediaFormat())
	assert.True(t, strings.HasPrefix(m.StorageKey, "media/"+tenantID.String()+"/"+locationID.String()+"/"))
	assert.True(t, strings.HasSuffix(m.StorageKey, "/facade-ete.jpg"))

	_, err = NewMedia(tenantID, locationID, "clip.mp4", "video/mp4", 1, "SELFIE")
	assert.Error(t, err)
}

func TestMedia_Lifecycle(t *testing.T) {
	m, err := NewMedia(uuid.New(), uuid.New(), "clip.mp4", "video/mp4", 4096, CategoryAtWork)
	require.NoError(t, err)
	assert.Equal(t, "VIDEO", m.MediaFormat())

	assert.ErrorIs(t, m.MarkPublished("x", "y"), shared.ErrInvalidState, "pending media cannot be published")

	require.NoError(t, m.Activate())
	assert.ErrorIs(t, m.Activate(), shared.ErrInvalidState)

	require.NoError(t, m.MarkPublished("accounts/1/locations/2/media/m1", "https://lh3.example/m1"))
	assert.True(t, m.IsPublished())
	assert.Len(t, m.GetDomainEvents(), 1)

	require.NoError(t, m.Delete())
	assert.Equal(t, MediaStatusDeleted, m.Status)
	assert.Error(t, m.Delete())
}
