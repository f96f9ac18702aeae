package content

import (
	"context"
	"testing"
	"time"

	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingPublishMetrics struct {
	outcomes []bool
}

func (m *recordingPublishMetrics) RecordPostPublish(_ context.Context, _ uuid.UUID, ok bool) {
	m.outcomes = append(m.outcomes, ok)
}

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes with the media image", func(t *testing.T) {
		f := newFixture(t)
		metrics := &recordingPublishMetrics{}
		f.publisher.SetMetrics(metrics)
		media := f.activeMedia(t)
		post := f.scheduledPost(t, fixedNow.Add(-time.Minute))
		post.MediaID = &media.ID

		f.expectAccess()
		f.posts.On("ClaimForPublishing", ctx, post, post.Version).Return(nil)
		f.posts.On("Save", mock.Anything, post).Return(nil)
		f.media.On("FindByIDForTenant", ctx, post.TenantID, media.ID).Return(media, nil)
		f.storage.On("GenerateDownloadURL", ctx, media.StorageKey, mediaURLExpiry).
			Return("https://s3.local/media.jpg", fixedNow.Add(mediaURLExpiry), nil)
		f.platform.On("CreateLocalPost", ctx, "access", "accounts/111/locations/222", mock.MatchedBy(func(req integration.LocalPostRequest) bool {
			return req.TopicType == "STANDARD" && req.MediaFormat == "PHOTO" && req.MediaURL == "https://s3.local/media.jpg"
		})).Return(&integration.LocalPostResult{Name: "accounts/111/locations/222/localPosts/9", SearchURL: "https://local.google.com/p/9"}, nil)

		err := f.publisher.Publish(ctx, post)

		require.NoError(t, err)
		assert.Equal(t, content.PostStatusPublished, post.Status)
		assert.Equal(t, "accounts/111/locations/222/localPosts/9", post.GooglePostName)
		assert.Equal(t, 1, post.Attempts)
		assert.Equal(t, []string{content.EventTypePostPublished}, f.events.Types())
		assert.Equal(t, []bool{true}, metrics.outcomes)
		f.posts.AssertNumberOfCalls(t, "ClaimForPublishing", 1)
		f.posts.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("losing the claim leaves Google untouched", func(t *testing.T) {
		f := newFixture(t)
		post := f.scheduledPost(t, fixedNow.Add(-time.Minute))
		loaded := post.Version
		f.posts.On("ClaimForPublishing", ctx, post, loaded).Return(shared.ErrConcurrencyConflict)

		err := f.publisher.Publish(ctx, post)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		f.platform.AssertNotCalled(t, "CreateLocalPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.posts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("failure is recorded after the caller cancels", func(t *testing.T) {
		f := newFixture(t)
		post := f.scheduledPost(t, fixedNow.Add(-time.Minute))
		cctx, cancel := context.WithCancel(ctx)
		f.expectAccess()
		f.posts.On("ClaimForPublishing", cctx, post, post.Version).Return(nil)
		f.platform.On("CreateLocalPost", cctx, "access", "accounts/111/locations/222", mock.Anything).
			Run(func(mock.Arguments) { cancel() }).
			Return(nil, context.Canceled)
		var saveErr error
		f.posts.On("Save", mock.Anything, post).
			Run(func(args mock.Arguments) { saveErr = args.Get(0).(context.Context).Err() }).
			Return(nil)

		err := f.publisher.Publish(cctx, post)

		assert.ErrorIs(t, err, context.Canceled)
		f.posts.AssertNumberOfCalls(t, "Save", 1)
		assert.NoError(t, saveErr, "save must not inherit the cancellation")
		assert.Equal(t, content.PostStatusScheduled, post.Status)
	})

	t.Run("scheduled post is retried until the attempt budget is spent", func(t *testing.T) {
		f := newFixture(t)
		post := f.scheduledPost(t, fixedNow.Add(-time.Minute))
		f.expectAccess()
		f.posts.On("ClaimForPublishing", ctx, post, mock.AnythingOfType("int")).Return(nil)
		f.posts.On("Save", mock.Anything, post).Return(nil)
		f.platform.On("CreateLocalPost", ctx, "access", "accounts/111/locations/222", mock.Anything).
			Return(nil, integration.ErrPlatformUnavailable)

		for attempt := 1; attempt <= 2; attempt++ {
			err := f.publisher.Publish(ctx, post)
			assert.ErrorIs(t, err, shared.ErrGoogleUnavailable)
			assert.Equal(t, content.PostStatusScheduled, post.Status, "attempt %d", attempt)
		}

		err := f.publisher.Publish(ctx, post)
		assert.Error(t, err)
		assert.Equal(t, content.PostStatusFailed, post.Status)
		assert.Equal(t, 3, post.Attempts)
		assert.NotEmpty(t, post.FailureReason)
		assert.Equal(t, []string{content.EventTypePostFailed}, f.events.Types())
	})

	t.Run("a published post cannot be published again", func(t *testing.T) {
		f := newFixture(t)
		post := f.post(t)
		require.NoError(t, post.MarkPublishing())
		require.NoError(t, post.MarkPublished("accounts/111/locations/222/localPosts/1", "", fixedNow))

		err := f.publisher.Publish(ctx, post)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.posts.AssertNotCalled(t, "ClaimForPublishing", mock.Anything, mock.Anything, mock.Anything)
		f.posts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPublisher_PublishScheduled(t *testing.T) {
	ctx := context.Background()

	t.Run("skips a post unscheduled since the scan", func(t *testing.T) {
		f := newFixture(t)
		post := f.post(t)
		f.posts.On("FindByIDForTenant", ctx, post.TenantID, post.ID).Return(post, nil)

		require.NoError(t, f.publisher.PublishScheduled(ctx, post.TenantID, post.ID))
		f.platform.AssertNotCalled(t, "CreateLocalPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("skips a deleted post", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.posts.On("FindByIDForTenant", ctx, f.location.TenantID, id).Return(nil, shared.ErrNotFound)

		assert.NoError(t, f.publisher.PublishScheduled(ctx, f.location.TenantID, id))
	})

	t.Run("a post claimed by another worker is skipped", func(t *testing.T) {
		f := newFixture(t)
		post := f.scheduledPost(t, fixedNow.Add(-time.Minute))
		f.posts.On("FindByIDForTenant", ctx, post.TenantID, post.ID).Return(post, nil)
		f.posts.On("ClaimForPublishing", ctx, post, post.Version).Return(shared.ErrConcurrencyConflict)

		assert.NoError(t, f.publisher.PublishScheduled(ctx, post.TenantID, post.ID))
		f.platform.AssertNotCalled(t, "CreateLocalPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPublisher_ReleaseStale(t *testing.T) {
	ctx := context.Background()

	t.Run("releases posts idle past the cutoff", func(t *testing.T) {
		f := newFixture(t)
		f.posts.On("ReleaseStalePublishing", ctx, fixedNow.Add(-20*time.Minute), 3).Return(int64(2), nil)

		n, err := f.publisher.ReleaseStale(ctx, 20*time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		f := newFixture(t)
		f.posts.On("ReleaseStalePublishing", ctx, mock.Anything, 3).Return(int64(0), assert.AnError)

		_, err := f.publisher.ReleaseStale(ctx, time.Minute)

		assert.ErrorIs(t, err, assert.AnError)
	})
}
