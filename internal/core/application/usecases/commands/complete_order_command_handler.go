package commands

import (
	"context"

	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/ports"

	"go.opentelemetry.io/otel/attribute"
)

// CompleteOrderCommandHandler moves a ReadyForPickup order to Completed.
// The release to the vendor happens later, when the relay delivers the
// order_completed event.
type CompleteOrderCommandHandler struct {
	transitionHandler
}

func NewCompleteOrderCommandHandler(
	uowFactory OrderUoWFactory,
	authorizer ports.Authorizer,
	clock ports.Clock,
) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{transitionHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		clock:      clock,
	}}
}

func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "CompleteOrder")
	span.SetAttributes(attribute.String("order.id", cmd.OrderID().String()))
	defer func() { endSpan(span, err) }()

	o, err := h.run(ctx, cmd.OrderID(), cmd.Buyer(), cmd.Proof(), func(o *order.Order, now uint64) error {
		return o.Complete(cmd.Buyer(), now)
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("order.status", o.Status().String()))
	return o, nil
}
