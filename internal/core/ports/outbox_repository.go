package ports

import (
	"context"

	"escrow/internal/core/domain/model/outbox"
)

// OutboxRepository persists the event log. Messages are only ever appended
// and updated, never removed.
type OutboxRepository interface {
	// Add appends a message and assigns its sequence number.
	Add(ctx context.Context, message *outbox.Message) error

	// Update persists the relay state of a message.
	Update(ctx context.Context, message *outbox.Message) error

	// GetPending returns up to limit Pending messages in sequence order,
	// including ones not yet due, so callers can keep per-order ordering.
	// Inside an active unit of work the rows stay locked.
	GetPending(ctx context.Context, limit int) ([]*outbox.Message, error)
}
