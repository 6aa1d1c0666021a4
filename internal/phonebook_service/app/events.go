package app

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Subjects for contact lifecycle events.
const (
	SubjectContactCreated = "contact.created"
	SubjectContactUpdated = "contact.updated"
	SubjectContactDeleted = "contact.deleted"
)

// EventPublisher publishes contact lifecycle events. Implemented by the
// platform NATS client.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// contactDeletedEvent is the payload for SubjectContactDeleted; created and
// updated events carry the full contact.
type contactDeletedEvent struct {
	ID uuid.UUID `json:"id"`
}

// publishEvent publishes best-effort: the write has already committed, so a
// failed publish is logged and not surfaced to the caller.
func (a *Application) publishEvent(ctx context.Context, subject string, payload any) {
	if a.events == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to marshal event payload", "error", err, "subject", subject)
		return
	}
	if err := a.events.Publish(ctx, subject, data); err != nil {
		a.logger.ErrorContext(ctx, "Failed to publish event", "error", err, "subject", subject)
	}
}
