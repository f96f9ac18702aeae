package content

import (
	"context"
	"errors"
	"time"

	businessapp "github.com/gbpdash/backend/internal/application/business"
	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostService manages local posts and their schedule
type PostService struct {
	posts     content.PostRepository
	media     content.MediaRepository
	locations business.LocationRepository
	tokens    *businessapp.TokenProvider
	platform  integration.BusinessProfilePlatform
	publish   *Publisher
	publisher shared.EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	posts content.PostRepository,
	media content.MediaRepository,
	locations business.LocationRepository,
	tokens *businessapp.TokenProvider,
	platform integration.BusinessProfilePlatform,
	publish *Publisher,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{
		posts:     posts,
		media:     media,
		locations: locations,
		tokens:    tokens,
		platform:  platform,
		publish:   publish,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

// Create creates a draft post, scheduling it when ScheduledAt is set
func (s *PostService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreatePostRequest) (*PostResponse, error) {
	if err := s.checkLocation(ctx, tenantID, req.LocationID); err != nil {
		return nil, err
	}
	c := req.toContent()
	if err := s.checkMedia(ctx, tenantID, req.LocationID, c.MediaID); err != nil {
		return nil, err
	}

	post, err := content.NewPost(tenantID, req.LocationID, c)
	if err != nil {
		return nil, err
	}
	post.SetCreatedBy(userID)
	if req.ScheduledAt != nil {
		if err := post.Schedule(*req.ScheduledAt, s.now()); err != nil {
			return nil, err
		}
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	s.emit(ctx, post)

	s.logger.Info("Post created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("post_id", post.ID.String()),
		zap.String("status", string(post.Status)))
	resp := ToPostResponse(post)
	return &resp, nil
}

// GetByID returns one post
func (s *PostService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PostResponse, error) {
	post, err := s.posts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPostResponse(post)
	return &resp, nil
}

// List returns posts, newest first by default
func (s *PostService) List(ctx context.Context, tenantID uuid.UUID, filter PostListFilter) ([]PostResponse, int64, error) {
	domainFilter, err := filter.toFilter()
	if err != nil {
		return nil, 0, err
	}
	posts, err := s.posts.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.posts.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPostResponses(posts), total, nil
}

// Update replaces the content of an editable post
func (s *PostService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePostRequest) (*PostResponse, error) {
	post, err := s.posts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	c := req.toContent()
	if err := s.checkMedia(ctx, tenantID, post.LocationID, c.MediaID); err != nil {
		return nil, err
	}
	if err := post.Update(c); err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	resp := ToPostResponse(post)
	return &resp, nil
}

// Schedule queues the post for the given future time
func (s *PostService) Schedule(ctx context.Context, tenantID, id uuid.UUID, req SchedulePostRequest) (*PostResponse, error) {
	post, err := s.posts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := post.Schedule(req.ScheduledAt, s.now()); err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	s.emit(ctx, post)
	resp := ToPostResponse(post)
	return &resp, nil
}

// Unschedule returns a scheduled post to draft
func (s *PostService) Unschedule(ctx context.Context, tenantID, id uuid.UUID) (*PostResponse, error) {
	post, err := s.posts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := post.Unschedule(); err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	resp := ToPostResponse(post)
	return &resp, nil
}

// PublishNow publishes immediately. A rejected draft ends up FAILED with
// the reason recorded on the post.
func (s *PostService) PublishNow(ctx context.Context, tenantID, id uuid.UUID) (*PostResponse, error) {
	post, err := s.posts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.publish.Publish(ctx, post); err != nil {
		return nil, err
	}
	resp := ToPostResponse(post)
	return &resp, nil
}

// Delete soft deletes the post and removes it from Google when live
func (s *PostService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	post, err := s.posts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if post.IsPublished() {
		if err := s.deleteRemote(ctx, post); err != nil {
			return err
		}
	}
	if err := post.Delete(); err != nil {
		return err
	}
	return s.posts.Save(ctx, post)
}

func (s *PostService) deleteRemote(ctx context.Context, post *content.Post) error {
	access, err := s.tokens.ForLocation(ctx, post.TenantID, post.LocationID)
	if err != nil {
		return err
	}
	err = s.platform.DeleteLocalPost(ctx, access.AccessToken, post.GooglePostName)
	if err == nil || errors.Is(err, integration.ErrPlatformNotFound) {
		return nil
	}
	return integration.ToDomainError(err)
}

func (s *PostService) checkLocation(ctx context.Context, tenantID, locationID uuid.UUID) error {
	location, err := s.locations.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_LOCATION", "Location not found")
		}
		return err
	}
	if !location.IsActive {
		return shared.NewDomainError("INVALID_LOCATION", "Location has been deleted")
	}
	return nil
}

func (s *PostService) checkMedia(ctx context.Context, tenantID, locationID uuid.UUID, mediaID *uuid.UUID) error {
	if mediaID == nil {
		return nil
	}
	media, err := s.media.FindByIDForTenant(ctx, tenantID, *mediaID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_MEDIA", "Media not found")
		}
		return err
	}
	if media.LocationID != locationID {
		return shared.NewDomainError("INVALID_MEDIA", "Media belongs to another location")
	}
	if media.Status != content.MediaStatusActive {
		return content.ErrMediaNotUploaded
	}
	return nil
}

func (s *PostService) emit(ctx context.Context, post *content.Post) {
	if err := shared.PublishAndClear(ctx, s.publisher, post); err != nil {
		s.logger.Warn("Failed to publish post events", zap.String("post_id", post.ID.String()), zap.Error(err))
	}
}
