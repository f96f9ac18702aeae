package content

import (
	"context"
	"testing"
	"time"

	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/gbpdash/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (f *fixture) postService() *PostService {
	svc := NewPostService(f.posts, f.media, f.locations, f.tokens, f.platform, f.publisher, f.events, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func standardInput() PostContentInput {
	return PostContentInput{Topic: "STANDARD", Summary: "Fresh pastries every morning"}
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("scheduled when a time is given", func(t *testing.T) {
		f := newFixture(t)
		at := fixedNow.Add(24 * time.Hour)
		f.locations.On("FindByIDForTenant", ctx, f.location.TenantID, f.location.ID).Return(f.location, nil)
		f.posts.On("Save", ctx, mock.AnythingOfType("*content.Post")).Return(nil)

		resp, err := f.postService().Create(ctx, f.location.TenantID, testutil.TestUserID(), CreatePostRequest{
			LocationID:       f.location.ID,
			PostContentInput: standardInput(),
			ScheduledAt:      &at,
		})

		require.NoError(t, err)
		assert.Equal(t, "SCHEDULED", resp.Status)
		require.NotNil(t, resp.ScheduledAt)
		assert.Equal(t, at, *resp.ScheduledAt)
		assert.Equal(t, []string{content.EventTypePostCreated, content.EventTypePostScheduled}, f.events.Types())
	})

	t.Run("rejects a past schedule", func(t *testing.T) {
		f := newFixture(t)
		at := fixedNow.Add(-time.Minute)
		f.locations.On("FindByIDForTenant", ctx, f.location.TenantID, f.location.ID).Return(f.location, nil)

		_, err := f.postService().Create(ctx, f.location.TenantID, uuid.Nil, CreatePostRequest{
			LocationID:       f.location.ID,
			PostContentInput: standardInput(),
			ScheduledAt:      &at,
		})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_SCHEDULE", de.Code)
		f.posts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("event post needs its time span", func(t *testing.T) {
		f := newFixture(t)
		f.locations.On("FindByIDForTenant", ctx, f.location.TenantID, f.location.ID).Return(f.location, nil)

		_, err := f.postService().Create(ctx, f.location.TenantID, uuid.Nil, CreatePostRequest{
			LocationID:       f.location.ID,
			PostContentInput: PostContentInput{Topic: "EVENT", Event: &EventInput{Title: "Tasting night"}},
		})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_EVENT", de.Code)
	})

	t.Run("unknown location", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.locations.On("FindByIDForTenant", ctx, f.location.TenantID, id).Return(nil, shared.ErrNotFound)

		_, err := f.postService().Create(ctx, f.location.TenantID, uuid.Nil, CreatePostRequest{LocationID: id, PostContentInput: standardInput()})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_LOCATION", de.Code)
	})

	t.Run("media must be uploaded", func(t *testing.T) {
		f := newFixture(t)
		pending, err := content.NewMedia(f.location.TenantID, f.location.ID, "a.png", "image/png", 10, "")
		require.NoError(t, err)
		in := standardInput()
		in.MediaID = &pending.ID
		f.locations.On("FindByIDForTenant", ctx, f.location.TenantID, f.location.ID).Return(f.location, nil)
		f.media.On("FindByIDForTenant", ctx, f.location.TenantID, pending.ID).Return(pending, nil)

		_, err = f.postService().Create(ctx, f.location.TenantID, uuid.Nil, CreatePostRequest{LocationID: f.location.ID, PostContentInput: in})

		assert.ErrorIs(t, err, content.ErrMediaNotUploaded)
	})
}

func TestPostService_UpdateAndUnschedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := f.scheduledPost(t, fixedNow.Add(time.Hour))
	f.posts.On("FindByIDForTenant", ctx, post.TenantID, post.ID).Return(post, nil)
	f.posts.On("Save", ctx, post).Return(nil)

	resp, err := f.postService().Update(ctx, post.TenantID, post.ID, UpdatePostRequest{
		PostContentInput: PostContentInput{Topic: "ALERT", Summary: "Closed for the holiday"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ALERT", resp.Topic)

	resp, err = f.postService().Unschedule(ctx, post.TenantID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", resp.Status)
	assert.Nil(t, resp.ScheduledAt)

	_, err = f.postService().Unschedule(ctx, post.TenantID, post.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestPostService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the live Google post", func(t *testing.T) {
		f := newFixture(t)
		post := f.post(t)
		require.NoError(t, post.MarkPublishing())
		require.NoError(t, post.MarkPublished("accounts/111/locations/222/localPosts/7", "", fixedNow))
		f.expectAccess()
		f.posts.On("FindByIDForTenant", ctx, post.TenantID, post.ID).Return(post, nil)
		f.platform.On("DeleteLocalPost", ctx, "access", "accounts/111/locations/222/localPosts/7").
			Return(integration.ErrPlatformNotFound)
		f.posts.On("Save", ctx, post).Return(nil)

		require.NoError(t, f.postService().Delete(ctx, post.TenantID, post.ID))
		assert.Equal(t, content.PostStatusDeleted, post.Status)
	})

	t.Run("keeps the post when Google refuses", func(t *testing.T) {
		f := newFixture(t)
		post := f.post(t)
		require.NoError(t, post.MarkPublishing())
		require.NoError(t, post.MarkPublished("accounts/111/locations/222/localPosts/7", "", fixedNow))
		f.expectAccess()
		f.posts.On("FindByIDForTenant", ctx, post.TenantID, post.ID).Return(post, nil)
		f.platform.On("DeleteLocalPost", ctx, "access", "accounts/111/locations/222/localPosts/7").
			Return(integration.ErrPlatformForbidden)

		err := f.postService().Delete(ctx, post.TenantID, post.ID)

		assert.ErrorIs(t, err, shared.ErrGoogleForbidden)
		assert.Equal(t, content.PostStatusPublished, post.Status)
	})

	t.Run("draft is only soft deleted", func(t *testing.T) {
		f := newFixture(t)
		post := f.post(t)
		f.posts.On("FindByIDForTenant", ctx, post.TenantID, post.ID).Return(post, nil)
		f.posts.On("Save", ctx, post).Return(nil)

		require.NoError(t, f.postService().Delete(ctx, post.TenantID, post.ID))
		f.platform.AssertNotCalled(t, "DeleteLocalPost", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPostService_PublishNowDraftFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := f.post(t)
	f.expectAccess()
	f.posts.On("FindByIDForTenant", ctx, post.TenantID, post.ID).Return(post, nil)
	f.posts.On("ClaimForPublishing", ctx, post, post.Version).Return(nil)
	f.posts.On("Save", mock.Anything, post).Return(nil)
	f.platform.On("CreateLocalPost", ctx, "access", "accounts/111/locations/222", mock.Anything).
		Return(nil, integration.ErrPlatformForbidden)

	_, err := f.postService().PublishNow(ctx, post.TenantID, post.ID)

	assert.ErrorIs(t, err, shared.ErrGoogleForbidden)
	assert.Equal(t, content.PostStatusFailed, post.Status)
}
