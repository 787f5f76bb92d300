// Package queries contains the read operations over escrow orders. Queries
// never authorize the caller and never modify state.
package queries

import (
	"context"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
)

// OrderReader is the read side of the Order Store. Both the postgres order
// repository and the in-memory store implement it.
type OrderReader interface {
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)
	FindByBuyer(ctx context.Context, buyer kernel.Principal) ([]*order.Order, error)
	FindByVendor(ctx context.Context, vendor kernel.Principal) ([]*order.Order, error)
}

// OrderResponse is the read model of one order.
type OrderResponse struct {
	ID        kernel.OrderID
	Buyer     kernel.Principal
	Vendor    kernel.Principal
	Amount    kernel.Amount
	Status    order.Status
	CreatedAt uint64
	UpdatedAt uint64
}

func newOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:        o.ID(),
		Buyer:     o.Buyer(),
		Vendor:    o.Vendor(),
		Amount:    o.Amount(),
		Status:    o.Status(),
		CreatedAt: o.CreatedAt(),
		UpdatedAt: o.UpdatedAt(),
	}
}

func newOrderResponses(orders []*order.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, newOrderResponse(o))
	}
	return responses
}
