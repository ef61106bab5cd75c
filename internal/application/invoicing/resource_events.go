package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"go.uber.org/zap"
)

// Event types emitted by resource modules when a chargeable resource's
// lifecycle changes
const (
	EventTypeResourceCreated = "resource.created"
	EventTypeResourceDeleted = "resource.deleted"
)

// ResourceEvent is a typed lifecycle notification for one chargeable
// resource. Events are delivered synchronously to the handler; ordering
// per resource follows real time, which the billing core relies on.
type ResourceEvent struct {
	Type       string
	Source     invoicing.Resource
	OccurredAt time.Time
}

// NewResourceCreated builds a creation event
func NewResourceCreated(source invoicing.Resource, occurredAt time.Time) ResourceEvent {
	return ResourceEvent{Type: EventTypeResourceCreated, Source: source, OccurredAt: occurredAt}
}

// NewResourceDeleted builds a deletion event
func NewResourceDeleted(source invoicing.Resource, occurredAt time.Time) ResourceEvent {
	return ResourceEvent{Type: EventTypeResourceDeleted, Source: source, OccurredAt: occurredAt}
}

// ResourceEventHandler feeds resource lifecycle events into the
// registration manager
type ResourceEventHandler struct {
	manager *RegistrationManager
	logger  *zap.Logger
}

// NewResourceEventHandler creates a handler bound to the manager
func NewResourceEventHandler(manager *RegistrationManager, logger *zap.Logger) *ResourceEventHandler {
	return &ResourceEventHandler{manager: manager, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ResourceEventHandler) EventTypes() []string {
	return []string{EventTypeResourceCreated, EventTypeResourceDeleted}
}

// Handle dispatches one resource lifecycle event to the billing core
func (h *ResourceEventHandler) Handle(ctx context.Context, event ResourceEvent) error {
	if event.Source == nil {
		return fmt.Errorf("resource event %q without source", event.Type)
	}

	switch event.Type {
	case EventTypeResourceCreated:
		return h.manager.Register(ctx, event.Source, event.OccurredAt)
	case EventTypeResourceDeleted:
		return h.manager.Terminate(ctx, event.Source, event.OccurredAt)
	default:
		h.logger.Error("unexpected event type",
			zap.String("event_type", event.Type),
			zap.String("resource_id", event.Source.ResourceID().String()),
		)
		return fmt.Errorf("unexpected event type: %s", event.Type)
	}
}
