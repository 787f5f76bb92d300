// Package ports defines the contracts between the escrow core and its
// infrastructure: persistence, authorization, time, settlement and event
// delivery. Adapters implement these interfaces; the application layer only
// depends on them.
package ports

import (
	"context"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
)

// OrderRepository is the Order Store. It is the sole owner of order records:
// every call returns a freshly built aggregate, never a reference into the
// store.
type OrderRepository interface {
	// Add inserts a new order. Fails with ObjectAlreadyExistsError when the id
	// is already present; the existing order is left untouched.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update overwrites an existing order. Fails with ObjectNotFoundError
	// when the id is absent.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads one order or fails with ObjectNotFoundError. Inside an
	// active unit of work the row stays locked until commit or rollback.
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)

	// Scan returns every order ordered by id.
	Scan(ctx context.Context) ([]*order.Order, error)

	// FindByBuyer returns the orders of one buyer ordered by id.
	FindByBuyer(ctx context.Context, buyer kernel.Principal) ([]*order.Order, error)

	// FindByVendor returns the orders of one vendor ordered by id.
	FindByVendor(ctx context.Context, vendor kernel.Principal) ([]*order.Order, error)
}
