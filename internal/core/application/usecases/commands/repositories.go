// Package commands contains the operations that change escrow state: the five
// order transitions and the outbox relay. Every command is a validated value
// object paired with a handler that runs it inside one unit of work.
package commands

import (
	"context"

	"escrow/internal/core/ports"
)

// Unit of Work interfaces narrow ports.UnitOfWork to what each handler needs,
// which keeps handler mocks small.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides the order repository bound to the transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OutboxRepoFactory provides the outbox repository bound to the transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// OrderUoW is used by the order transitions. Domain events reach the
	// outbox through Commit, so transitions never touch the outbox directly.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OutboxUoW is used by the relay.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	// OutboxUoWFactory creates new outbox unit of work instances.
	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)
