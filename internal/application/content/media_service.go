package content

import (
	"context"
	"errors"
	"strings"
	"time"

	businessapp "github.com/gbpdash/backend/internal/application/business"
	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MediaOptions sets presigned URL lifetimes
type MediaOptions struct {
	UploadExpiry   time.Duration
	DownloadExpiry time.Duration
}

// MediaService manages the media library
type MediaService struct {
	media     content.MediaRepository
	locations business.LocationRepository
	storage   ObjectStorage
	tokens    *businessapp.TokenProvider
	platform  integration.BusinessProfilePlatform
	publisher shared.EventPublisher
	opts      MediaOptions
	logger    *zap.Logger
}

// NewMediaService creates a new MediaService
func NewMediaService(
	media content.MediaRepository,
	locations business.LocationRepository,
	storage ObjectStorage,
	tokens *businessapp.TokenProvider,
	platform integration.BusinessProfilePlatform,
	publisher shared.EventPublisher,
	opts MediaOptions,
	logger *zap.Logger,
) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.UploadExpiry <= 0 {
		opts.UploadExpiry = 15 * time.Minute
	}
	if opts.DownloadExpiry <= 0 {
		opts.DownloadExpiry = time.Hour
	}
	return &MediaService{
		media:     media,
		locations: locations,
		storage:   storage,
		tokens:    tokens,
		platform:  platform,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

// RequestUpload registers a pending file and presigns its upload
func (s *MediaService) RequestUpload(ctx context.Context, tenantID, userID uuid.UUID, req RequestUploadRequest) (*UploadResponse, error) {
	location, err := s.locations.FindByIDForTenant(ctx, tenantID, req.LocationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_LOCATION", "Location not found")
		}
		return nil, err
	}
	if !location.IsActive {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location has been deleted")
	}

	media, err := content.NewMedia(tenantID, location.ID, req.FileName, req.ContentType, req.SizeBytes, content.MediaCategory(req.Category))
	if err != nil {
		return nil, err
	}
	media.SetCreatedBy(userID)
	if req.Description != "" {
		if err := media.UpdateDetails(req.Description, ""); err != nil {
			return nil, err
		}
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, media.StorageKey, media.ContentType, media.SizeBytes, s.opts.UploadExpiry)
	if err != nil {
		return nil, err
	}
	if err := s.media.Save(ctx, media); err != nil {
		return nil, err
	}

	s.logger.Info("Media upload requested",
		zap.String("tenant_id", tenantID.String()),
		zap.String("media_id", media.ID.String()),
		zap.String("content_type", media.ContentType),
		zap.Int64("size_bytes", media.SizeBytes))
	return &UploadResponse{
		Media:         ToMediaResponse(media),
		UploadURL:     uploadURL,
		UploadMethod:  "PUT",
		UploadHeaders: map[string]string{"Content-Type": media.ContentType},
		ExpiresAt:     expiresAt,
	}, nil
}

// Confirm activates a pending item once its object exists in storage with
// the declared size and content type
func (s *MediaService) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*MediaResponse, error) {
	media, err := s.media.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if media.Status == content.MediaStatusPending {
		info, found, err := s.storage.StatObject(ctx, media.StorageKey)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, content.ErrMediaNotUploaded
		}
		if info.SizeBytes != media.SizeBytes || !sameMediaType(info.ContentType, media.ContentType) {
			s.logger.Warn("Uploaded object does not match media",
				zap.String("media_id", media.ID.String()),
				zap.Int64("declared_size", media.SizeBytes),
				zap.Int64("stored_size", info.SizeBytes),
				zap.String("declared_type", media.ContentType),
				zap.String("stored_type", info.ContentType))
			if err := s.storage.DeleteObject(ctx, media.StorageKey); err != nil {
				s.logger.Warn("Failed to remove mismatched object", zap.String("storage_key", media.StorageKey), zap.Error(err))
			}
			return nil, content.ErrMediaMismatch
		}
		if err := media.Activate(); err != nil {
			return nil, err
		}
		if err := s.media.Save(ctx, media); err != nil {
			return nil, err
		}
	}
	return s.withDownloadURL(ctx, media)
}

// GetByID returns one item with a download URL when uploaded
func (s *MediaService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*MediaResponse, error) {
	media, err := s.media.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.withDownloadURL(ctx, media)
}

// List returns the library, newest first by default
func (s *MediaService) List(ctx context.Context, tenantID uuid.UUID, filter MediaListFilter) ([]MediaResponse, int64, error) {
	domainFilter := filter.toFilter()
	items, err := s.media.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.media.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MediaResponse, 0, len(items))
	for i := range items {
		resp, err := s.withDownloadURL(ctx, &items[i])
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, *resp)
	}
	return responses, total, nil
}

// PublishToGoogle adds an uploaded file to the location's Google media
func (s *MediaService) PublishToGoogle(ctx context.Context, tenantID, id uuid.UUID) (*MediaResponse, error) {
	media, err := s.media.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if media.Status != content.MediaStatusActive {
		return nil, content.ErrMediaNotUploaded
	}
	if media.IsPublished() {
		return nil, shared.ErrAlreadyExists.WithMessage("Media is already published to Google")
	}

	access, err := s.tokens.ForLocation(ctx, tenantID, media.LocationID)
	if err != nil {
		return nil, err
	}
	sourceURL, _, err := s.storage.GenerateDownloadURL(ctx, media.StorageKey, mediaURLExpiry)
	if err != nil {
		return nil, err
	}
	result, err := s.platform.CreateMedia(ctx, access.AccessToken, access.ResourceName(), integration.MediaRequest{
		MediaFormat: media.MediaFormat(),
		Category:    string(media.Category),
		SourceURL:   sourceURL,
		Description: media.Description,
	})
	if err != nil {
		return nil, integration.ToDomainError(err)
	}

	if err := media.MarkPublished(result.Name, result.GoogleURL); err != nil {
		return nil, err
	}
	if err := s.media.Save(ctx, media); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.publisher, media); err != nil {
		s.logger.Warn("Failed to publish media events", zap.String("media_id", media.ID.String()), zap.Error(err))
	}
	return s.withDownloadURL(ctx, media)
}

// Delete soft deletes the item and removes the stored object
func (s *MediaService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	media, err := s.media.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := media.Delete(); err != nil {
		return err
	}
	if err := s.media.Save(ctx, media); err != nil {
		return err
	}
	if err := s.storage.DeleteObject(ctx, media.StorageKey); err != nil {
		s.logger.Warn("Failed to remove media object",
			zap.String("media_id", media.ID.String()),
			zap.String("storage_key", media.StorageKey),
			zap.Error(err))
	}
	return nil
}

// sameMediaType compares MIME types ignoring case and parameters
func sameMediaType(stored, declared string) bool {
	stored, _, _ = strings.Cut(stored, ";")
	return strings.EqualFold(strings.TrimSpace(stored), declared)
}

func (s *MediaService) withDownloadURL(ctx context.Context, media *content.Media) (*MediaResponse, error) {
	resp := ToMediaResponse(media)
	if media.Status != content.MediaStatusActive {
		return &resp, nil
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, media.StorageKey, s.opts.DownloadExpiry)
	if err != nil {
		return nil, err
	}
	resp.DownloadURL = url
	resp.DownloadExpiresAt = &expiresAt
	return &resp, nil
}
