package ports

import (
	"context"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/outbox"
)

// Clock is the logical ledger clock. Now never returns a value smaller than
// a previous call.
type Clock interface {
	Now() uint64
}

// Authorizer proves that the current call is made on behalf of identity.
// Any failure must be reported as an UnauthorizedError.
type Authorizer interface {
	Authorize(ctx context.Context, identity kernel.Principal, proof string) error
}

// Transfer describes one movement of escrowed funds.
type Transfer struct {
	// IdempotencyKey makes retries of the same movement a no-op.
	IdempotencyKey string
	OrderID        kernel.OrderID
	To             kernel.Principal
	Amount         kernel.Amount
}

// FundsTransfer executes settlements of completed and refunded orders.
// Implementations must treat a repeated IdempotencyKey as already done.
type FundsTransfer interface {
	// Release pays the escrowed amount out to the vendor.
	Release(ctx context.Context, transfer Transfer) error

	// Refund returns the escrowed amount to the buyer.
	Refund(ctx context.Context, transfer Transfer) error
}

// EventSink delivers committed events to external observers. Delivery is
// at-least-once: the same message may be published again after a failure.
type EventSink interface {
	Publish(ctx context.Context, message *outbox.Message) error
}
