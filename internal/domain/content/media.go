package content

import (
	"path"
	"strings"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Upload size limits accepted by Business Profile
const (
	MaxImageSize int64 = 10 << 20
	MaxVideoSize int64 = 75 << 20
)

// ErrMediaNotUploaded is returned when a confirmed upload is missing from storage
var ErrMediaNotUploaded = shared.NewDomainError("MEDIA_NOT_UPLOADED", "The file has not been uploaded yet")

// ErrMediaMismatch is returned when the stored object differs from the declared file
var ErrMediaMismatch = shared.NewDomainError("INVALID_UPLOAD", "The uploaded file does not match the declared size or content type")

// MediaStatus is the lifecycle state of a media item
type MediaStatus string

const (
	MediaStatusPending MediaStatus = "PENDING"
	MediaStatusActive  MediaStatus = "ACTIVE"
	MediaStatusDeleted MediaStatus = "DELETED"
)

// MediaCategory mirrors the Business Profile media categories
type MediaCategory string

const (
	CategoryCover      MediaCategory = "COVER"
	CategoryProfile    MediaCategory = "PROFILE"
	CategoryLogo       MediaCategory = "LOGO"
	CategoryExterior   MediaCategory = "EXTERIOR"
	CategoryInterior   MediaCategory = "INTERIOR"
	CategoryProduct    MediaCategory = "PRODUCT"
	CategoryAtWork     MediaCategory = "AT_WORK"
	CategoryFoodDrink  MediaCategory = "FOOD_AND_DRINK"
	CategoryMenu       MediaCategory = "MENU"
	CategoryCommonArea MediaCategory = "COMMON_AREA"
	CategoryRooms      MediaCategory = "ROOMS"
	CategoryTeams      MediaCategory = "TEAMS"
	CategoryAdditional MediaCategory = "ADDITIONAL"
)

// IsValid checks if the category is valid
func (c MediaCategory) IsValid() bool {
	switch c {
	case CategoryCover, CategoryProfile, CategoryLogo, CategoryExterior, CategoryInterior,
		CategoryProduct, CategoryAtWork, CategoryFoodDrink, CategoryMenu, CategoryCommonArea,
		CategoryRooms, CategoryTeams, CategoryAdditional:
		return true
	}
	return false
}

var allowedContentTypes = map[string]int64{
	"image/jpeg": MaxImageSize,
	"image/png":  MaxImageSize,
	"video/mp4":  MaxVideoSize,
}

// IsVideo reports whether the content type is a video format
func IsVideo(contentType string) bool {
	return strings.HasPrefix(contentType, "video/")
}

// ValidateUpload checks the declared content type and size of an upload
func ValidateUpload(contentType string, size int64) error {
	limit, ok := allowedContentTypes[strings.ToLower(contentType)]
	if !ok {
		return shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only image/jpeg, image/png and video/mp4 are supported")
	}
	if size <= 0 {
		return shared.NewDomainError("INVALID_MEDIA_SIZE", "File size must be positive")
	}
	if size > limit {
		return shared.NewDomainError("MEDIA_TOO_LARGE", "File exceeds the size limit for its type")
	}
	return nil
}

// Media is a file in a location's media library
type Media struct {
	shared.TenantAggregateRoot
	LocationID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	FileName        string        `gorm:"type:varchar(255);not null"`
	ContentType     string        `gorm:"type:varchar(50);not null"`
	SizeBytes       int64         `gorm:"not null"`
	StorageKey      string        `gorm:"type:varchar(500);not null;uniqueIndex"`
	Category        MediaCategory `gorm:"type:varchar(30);not null"`
	Description     string        `gorm:"type:varchar(1000)"`
	Status          MediaStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	GoogleMediaName string        `gorm:"type:varchar(255)"`
	GoogleURL       string        `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (Media) TableName() string {
	return "gmb_media"
}

// NewMedia creates a pending media item awaiting its upload
func NewMedia(tenantID, locationID uuid.UUID, fileName, contentType string, size int64, category MediaCategory) (*Media, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location is required")
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" || len(fileName) > 255 {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name must be 1-255 characters")
	}
	if err := ValidateUpload(contentType, size); err != nil {
		return nil, err
	}
	if category == "" {
		category = CategoryAdditional
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_MEDIA_CATEGORY", "Unknown media category")
	}

	m := &Media{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		LocationID:          locationID,
		FileName:            fileName,
		ContentType:         strings.ToLower(contentType),
		SizeBytes:           size,
		Category:            category,
		Status:              MediaStatusPending,
	}
	m.StorageKey = StorageKey(tenantID, locationID, m.ID, fileName)
	return m, nil
}

// StorageKey builds the object key for a media file.
// Format: media/{tenant}/{location}/{media}/{slug}{ext}
func StorageKey(tenantID, locationID, mediaID uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	base := shared.Slugify(strings.TrimSuffix(fileName, path.Ext(fileName)))
	if base == "" {
		base = "file"
	}
	return path.Join("media", tenantID.String(), locationID.String(), mediaID.String(), base+ext)
}

// MediaFormat returns the Business Profile media format
func (m *Media) MediaFormat() string {
	if IsVideo(m.ContentType) {
		return "VIDEO"
	}
	return "PHOTO"
}

// Activate marks a pending upload as present in storage
func (m *Media) Activate() error {
	if m.Status != MediaStatusPending {
		return shared.ErrInvalidState.WithMessage("Media is not awaiting upload")
	}
	m.Status = MediaStatusActive
	m.MarkModified()
	return nil
}

// UpdateDetails changes description and category
func (m *Media) UpdateDetails(description string, category MediaCategory) error {
	if m.Status == MediaStatusDeleted {
		return shared.ErrInvalidState.WithMessage("Media is deleted")
	}
	if category != "" {
		if !category.IsValid() {
			return shared.NewDomainError("INVALID_MEDIA_CATEGORY", "Unknown media category")
		}
		m.Category = category
	}
	if len(description) > 1000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 1000 characters")
	}
	m.Description = description
	m.MarkModified()
	return nil
}

// MarkPublished records the Google media item created from this file
func (m *Media) MarkPublished(googleName, googleURL string) error {
	if m.Status != MediaStatusActive {
		return shared.ErrInvalidState.WithMessage("Only uploaded media can be published")
	}
	m.GoogleMediaName = googleName
	m.GoogleURL = googleURL
	m.MarkModified()

	m.AddDomainEvent(NewMediaPublishedEvent(m))

	return nil
}

// IsPublished reports whether the file exists on Google
func (m *Media) IsPublished() bool {
	return m.GoogleMediaName != ""
}

// Delete soft deletes the media item
func (m *Media) Delete() error {
	if m.Status == MediaStatusDeleted {
		return shared.ErrInvalidState.WithMessage("Media is already deleted")
	}
	m.Status = MediaStatusDeleted
	m.MarkModified()
	return nil
}
