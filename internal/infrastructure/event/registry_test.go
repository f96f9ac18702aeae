package event

import (
	"testing"

	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/gbpdash/backend/internal/domain/engagement"
	"github.com/gbpdash/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	t.Run("routes by event type", func(t *testing.T) {
		registry := NewHandlerRegistry()
		replies := testutil.NewMockEventHandler(engagement.EventTypeReviewReceived, engagement.EventTypeQuestionReceived)
		registry.Register(replies, replies.EventTypes()...)

		assert.Equal(t, []string{engagement.EventTypeReviewReceived, engagement.EventTypeQuestionReceived}, registry.EventTypes())
		assert.Len(t, registry.GetHandlers(engagement.EventTypeReviewReceived), 1)
		assert.Len(t, registry.GetHandlers(engagement.EventTypeQuestionReceived), 1)
		assert.Empty(t, registry.GetHandlers(content.EventTypePostPublished))
	})

	t.Run("no types subscribes to everything", func(t *testing.T) {
		registry := NewHandlerRegistry()
		audit := testutil.NewMockEventHandler()
		registry.Register(audit)

		assert.Equal(t, []string{AllEvents}, registry.EventTypes())
		assert.Len(t, registry.GetHandlers(content.EventTypePostFailed), 1)
	})

	t.Run("keeps subscription order and deduplicates", func(t *testing.T) {
		registry := NewHandlerRegistry()
		audit := testutil.NewMockEventHandler()
		replies := testutil.NewMockEventHandler(engagement.EventTypeReviewReceived)

		registry.Register(audit)
		registry.Register(replies, engagement.EventTypeReviewReceived)
		registry.Register(replies, engagement.EventTypeReviewReceived)
		registry.Register(audit, engagement.EventTypeReviewReceived)

		handlers := registry.GetHandlers(engagement.EventTypeReviewReceived)
		if assert.Len(t, handlers, 2) {
			assert.Same(t, audit, handlers[0])
			assert.Same(t, replies, handlers[1])
		}
	})

	t.Run("unregister removes every subscription", func(t *testing.T) {
		registry := NewHandlerRegistry()
		audit := testutil.NewMockEventHandler()
		replies := testutil.NewMockEventHandler(engagement.EventTypeReviewReceived)

		registry.Register(audit)
		registry.Register(audit, engagement.EventTypeReviewReceived)
		registry.Register(replies, engagement.EventTypeReviewReceived)
		registry.Unregister(audit)

		handlers := registry.GetHandlers(engagement.EventTypeReviewReceived)
		if assert.Len(t, handlers, 1) {
			assert.Same(t, replies, handlers[0])
		}
		assert.Equal(t, []string{engagement.EventTypeReviewReceived}, registry.EventTypes())
	})
}
