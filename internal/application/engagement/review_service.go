// Package engagement serves the review inbox and Q&A of linked locations.
package engagement

import (
	"context"
	"time"

	businessapp "github.com/gbpdash/backend/internal/application/business"
	"github.com/gbpdash/backend/internal/domain/engagement"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService manages reviews and owner replies
type ReviewService struct {
	reviews   engagement.ReviewRepository
	tokens    *businessapp.TokenProvider
	platform  integration.BusinessProfilePlatform
	publisher shared.EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviews engagement.ReviewRepository,
	tokens *businessapp.TokenProvider,
	platform integration.BusinessProfilePlatform,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		reviews:   reviews,
		tokens:    tokens,
		platform:  platform,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

// GetByID returns one review
func (s *ReviewService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReviewResponse, error) {
	review, err := s.reviews.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToReviewResponse(review)
	return &resp, nil
}

// List returns reviews, newest first by default
func (s *ReviewService) List(ctx context.Context, tenantID uuid.UUID, filter ReviewListFilter) ([]ReviewResponse, int64, error) {
	domainFilter, err := filter.toFilter()
	if err != nil {
		return nil, 0, err
	}
	if filter.OrderBy == "" {
		domainFilter.OrderBy = "review_created_at"
		domainFilter.OrderDir = "desc"
	}

	reviews, err := s.reviews.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.reviews.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToReviewResponses(reviews), total, nil
}

// Reply publishes a manual owner reply
func (s *ReviewService) Reply(ctx context.Context, tenantID, id uuid.UUID, req ReplyRequest) (*ReviewResponse, error) {
	return s.ReplyWithSource(ctx, tenantID, id, req.Comment, engagement.ReplySourceManual)
}

// ReplyWithSource sends the reply to Google and stores it only once Google
// accepted it.
func (s *ReviewService) ReplyWithSource(ctx context.Context, tenantID, id uuid.UUID, comment string, source engagement.ReplySource) (*ReviewResponse, error) {
	if err := engagement.ValidateReply(comment); err != nil {
		return nil, err
	}
	review, err := s.reviews.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !review.IsActive {
		return nil, shared.ErrInvalidState.WithMessage("Review is no longer available")
	}

	access, err := s.tokens.ForLocation(ctx, tenantID, review.LocationID)
	if err != nil {
		return nil, err
	}
	reply, err := s.platform.UpsertReviewReply(ctx, access.AccessToken, review.GoogleReviewName, comment)
	if err != nil {
		return nil, integration.ToDomainError(err)
	}

	at := reply.UpdateTime
	if at.IsZero() {
		at = s.now()
	}
	text := reply.Comment
	if text == "" {
		text = comment
	}
	if err := review.Reply(text, source, at); err != nil {
		return nil, err
	}
	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.publisher, review); err != nil {
		s.logger.Warn("Failed to publish review events", zap.String("review_id", review.ID.String()), zap.Error(err))
	}

	s.logger.Info("Review replied",
		zap.String("tenant_id", tenantID.String()),
		zap.String("review_id", review.ID.String()),
		zap.String("source", string(source)))
	resp := ToReviewResponse(review)
	return &resp, nil
}

// DeleteReply removes the owner reply on Google and locally
func (s *ReviewService) DeleteReply(ctx context.Context, tenantID, id uuid.UUID) (*ReviewResponse, error) {
	review, err := s.reviews.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !review.HasReply() {
		return nil, shared.ErrInvalidState.WithMessage("Review has no reply")
	}

	access, err := s.tokens.ForLocation(ctx, tenantID, review.LocationID)
	if err != nil {
		return nil, err
	}
	if err := s.platform.DeleteReviewReply(ctx, access.AccessToken, review.GoogleReviewName); err != nil {
		return nil, integration.ToDomainError(err)
	}

	if err := review.ClearReply(); err != nil {
		return nil, err
	}
	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	resp := ToReviewResponse(review)
	return &resp, nil
}

// Stats summarizes active reviews of the tenant or one location
func (s *ReviewService) Stats(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) (*ReviewStatsResponse, error) {
	counts, err := s.reviews.RatingCounts(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	replied, err := s.reviews.CountReplied(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	resp := ToReviewStatsResponse(locationID, engagement.ComputeReviewStats(counts, replied))
	return &resp, nil
}
