package event

import (
	"slices"
	"sync"

	"github.com/gbpdash/backend/internal/domain/shared"
)

// AllEvents subscribes a handler to every event type
const AllEvents = "*"

type subscription struct {
	handler   shared.EventHandler
	eventType string
}

// HandlerRegistry tracks which handlers receive which event types.
// Handlers are returned in subscription order, wildcard subscriptions included.
type HandlerRegistry struct {
	mu   sync.RWMutex
	subs []subscription
}

// NewHandlerRegistry creates a new handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

// Register subscribes handler to eventTypes, or to AllEvents when none are
// given. Registering the same pair twice is a no-op.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = []string{AllEvents}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, et := range eventTypes {
		sub := subscription{handler: handler, eventType: et}
		if !slices.Contains(r.subs, sub) {
			r.subs = append(r.subs, sub)
		}
	}
}

// Unregister drops every subscription of handler
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = slices.DeleteFunc(r.subs, func(s subscription) bool {
		return s.handler == handler
	})
}

// GetHandlers returns the handlers for eventType, each at most once
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []shared.EventHandler
	for _, s := range r.subs {
		if s.eventType != eventType && s.eventType != AllEvents {
			continue
		}
		if !slices.Contains(result, s.handler) {
			result = append(result, s.handler)
		}
	}
	return result
}

// EventTypes lists the subscribed event types, AllEvents included
func (r *HandlerRegistry) EventTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []string
	for _, s := range r.subs {
		if !slices.Contains(types, s.eventType) {
			types = append(types, s.eventType)
		}
	}
	return types
}
