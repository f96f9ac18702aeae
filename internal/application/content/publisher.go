package content

import (
	"context"
	"errors"
	"time"

	businessapp "github.com/gbpdash/backend/internal/application/business"
	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultMaxAttempts bounds publish retries of a scheduled post
	DefaultMaxAttempts = 3
	// mediaURLExpiry must outlive Google fetching the post image
	mediaURLExpiry = 24 * time.Hour
)

// PublishMetrics receives publish outcomes
type PublishMetrics interface {
	RecordPostPublish(ctx context.Context, tenantID uuid.UUID, succeeded bool)
}

// Publisher sends posts to Google as local posts
type Publisher struct {
	posts       content.PostRepository
	media       content.MediaRepository
	storage     ObjectStorage
	tokens      *businessapp.TokenProvider
	platform    integration.BusinessProfilePlatform
	publisher   shared.EventPublisher
	metrics     PublishMetrics
	maxAttempts int
	now         func() time.Time
	logger      *zap.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(
	posts content.PostRepository,
	media content.MediaRepository,
	storage ObjectStorage,
	tokens *businessapp.TokenProvider,
	platform integration.BusinessProfilePlatform,
	publisher shared.EventPublisher,
	maxAttempts int,
	logger *zap.Logger,
) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Publisher{
		posts:       posts,
		media:       media,
		storage:     storage,
		tokens:      tokens,
		platform:    platform,
		publisher:   publisher,
		maxAttempts: maxAttempts,
		now:         time.Now,
		logger:      logger,
	}
}

// SetMetrics attaches a metrics sink
func (p *Publisher) SetMetrics(m PublishMetrics) {
	p.metrics = m
}

// DuePosts returns scheduled posts whose time has come, across tenants
func (p *Publisher) DuePosts(ctx context.Context, limit int) ([]content.Post, error) {
	return p.posts.FindDueForPublishing(ctx, p.now(), limit)
}

// PublishScheduled reloads a due post and publishes it. A post that was
// unscheduled, edited or claimed since the scan is skipped.
func (p *Publisher) PublishScheduled(ctx context.Context, tenantID, postID uuid.UUID) error {
	post, err := p.posts.FindByIDForTenant(ctx, tenantID, postID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if !post.IsDue(p.now()) {
		p.logger.Debug("Skipping post that is no longer due",
			zap.String("post_id", postID.String()),
			zap.String("status", string(post.Status)))
		return nil
	}
	if err := p.Publish(ctx, post); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			p.logger.Debug("Post claimed by another publisher", zap.String("post_id", postID.String()))
			return nil
		}
		return err
	}
	return nil
}

// ReleaseStale returns posts stuck in PUBLISHING for longer than olderThan
// to the schedule, so a crashed or timed out attempt does not pin them
func (p *Publisher) ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := p.posts.ReleaseStalePublishing(ctx, p.now().Add(-olderThan), p.maxAttempts)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		p.logger.Warn("Released stale publishing posts", zap.Int64("count", n))
	}
	return n, nil
}

// Publish claims the post and creates it on Google. A failed attempt of a
// scheduled post stays SCHEDULED until the attempt budget is spent. Only one
// caller wins the claim; the others get shared.ErrConcurrencyConflict.
func (p *Publisher) Publish(ctx context.Context, post *content.Post) error {
	loaded := post.Version
	if err := post.MarkPublishing(); err != nil {
		return err
	}
	if err := p.posts.ClaimForPublishing(ctx, post, loaded); err != nil {
		return err
	}

	result, err := p.create(ctx, post)
	if err != nil {
		return p.fail(ctx, post, err)
	}

	if err := post.MarkPublished(result.Name, result.SearchURL, p.now()); err != nil {
		return err
	}
	// the post is live on Google now, so record it even if the caller gave up
	if err := p.posts.Save(context.WithoutCancel(ctx), post); err != nil {
		return err
	}
	p.emit(ctx, post)
	p.record(ctx, post.TenantID, true)

	p.logger.Info("Post published",
		zap.String("tenant_id", post.TenantID.String()),
		zap.String("post_id", post.ID.String()),
		zap.String("google_post_name", result.Name),
		zap.Int("attempts", post.Attempts))
	return nil
}

func (p *Publisher) create(ctx context.Context, post *content.Post) (*integration.LocalPostResult, error) {
	access, err := p.tokens.ForLocation(ctx, post.TenantID, post.LocationID)
	if err != nil {
		return nil, err
	}
	req, err := p.buildRequest(ctx, post)
	if err != nil {
		return nil, err
	}
	result, err := p.platform.CreateLocalPost(ctx, access.AccessToken, access.ResourceName(), req)
	if err != nil {
		return nil, integration.ToDomainError(err)
	}
	return result, nil
}

func (p *Publisher) buildRequest(ctx context.Context, post *content.Post) (integration.LocalPostRequest, error) {
	req := integration.LocalPostRequest{
		LanguageCode: post.LanguageCode,
		Summary:      post.Summary,
		TopicType:    string(post.Topic),
		ActionType:   string(post.CallToAction.Type),
		ActionURL:    post.CallToAction.URL,
		EventTitle:   post.Event.Title,
		EventStart:   post.Event.StartAt,
		EventEnd:     post.Event.EndAt,
		CouponCode:   post.Offer.CouponCode,
		RedeemURL:    post.Offer.RedeemOnlineURL,
		Terms:        post.Offer.TermsConditions,
	}
	if post.MediaID == nil {
		return req, nil
	}

	media, err := p.media.FindByIDForTenant(ctx, post.TenantID, *post.MediaID)
	if err != nil {
		return req, err
	}
	if media.Status != content.MediaStatusActive {
		return req, content.ErrMediaNotUploaded
	}
	url := media.GoogleURL
	if url == "" {
		url, _, err = p.storage.GenerateDownloadURL(ctx, media.StorageKey, mediaURLExpiry)
		if err != nil {
			return req, err
		}
	}
	req.MediaFormat = media.MediaFormat()
	req.MediaURL = url
	return req, nil
}

func (p *Publisher) fail(ctx context.Context, post *content.Post, cause error) error {
	final := post.MarkFailed(cause.Error(), p.maxAttempts)
	// a cancelled ctx is a common cause; the post must still leave PUBLISHING
	if err := p.posts.Save(context.WithoutCancel(ctx), post); err != nil {
		p.logger.Error("Failed to record publish failure",
			zap.String("post_id", post.ID.String()), zap.Error(err))
	}
	p.emit(ctx, post)
	p.record(ctx, post.TenantID, false)

	p.logger.Warn("Post publish failed",
		zap.String("tenant_id", post.TenantID.String()),
		zap.String("post_id", post.ID.String()),
		zap.Int("attempts", post.Attempts),
		zap.Bool("final", final),
		zap.Error(cause))
	return cause
}

func (p *Publisher) emit(ctx context.Context, post *content.Post) {
	if err := shared.PublishAndClear(ctx, p.publisher, post); err != nil {
		p.logger.Warn("Failed to publish post events", zap.String("post_id", post.ID.String()), zap.Error(err))
	}
}

func (p *Publisher) record(ctx context.Context, tenantID uuid.UUID, ok bool) {
	if p.metrics != nil {
		p.metrics.RecordPostPublish(ctx, tenantID, ok)
	}
}
