package commands

import (
	"context"

	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/ports"

	"go.opentelemetry.io/otel/attribute"
)

// CancelOrderCommandHandler cancels or refunds an order on behalf of either
// party.
//
// Example:
//
//	handler := NewCancelOrderCommandHandler(uowFactory, authorizer, clock)
//	cmd, _ := NewCancelOrderCommand(orderID, vendor, proof)
//
//	cancelled, err := handler.Handle(ctx, cmd)
//	if err == nil && cancelled.Status() == order.Refunded {
//	    // order_refunded is in the outbox, the relay will refund the buyer
//	}
type CancelOrderCommandHandler struct {
	transitionHandler
}

func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	authorizer ports.Authorizer,
	clock ports.Clock,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{transitionHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		clock:      clock,
	}}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "CancelOrder")
	span.SetAttributes(attribute.String("order.id", cmd.OrderID().String()))
	defer func() { endSpan(span, err) }()

	o, err := h.run(ctx, cmd.OrderID(), cmd.Caller(), cmd.Proof(), func(o *order.Order, now uint64) error {
		return o.Cancel(cmd.Caller(), now)
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("order.status", o.Status().String()))
	return o, nil
}
