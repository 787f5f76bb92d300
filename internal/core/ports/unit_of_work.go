package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the commit boundary of the escrow core. Orders written
// through its repositories and the domain events they raised are committed
// together or not at all.
type UnitOfWork interface {
	// Begin starts a transaction. Calling it twice is a no-op.
	Begin(ctx context.Context) error

	// Commit appends the domain events of every tracked order to the outbox
	// and commits. Returns an error if no transaction is active.
	Commit(ctx context.Context) error

	// Rollback discards the transaction. Returns an error if none is active.
	Rollback(ctx context.Context) error

	// OrderRepository returns a repository bound to the current transaction.
	OrderRepository() OrderRepository

	// OutboxRepository returns a repository bound to the current transaction.
	OutboxRepository() OutboxRepository
}
