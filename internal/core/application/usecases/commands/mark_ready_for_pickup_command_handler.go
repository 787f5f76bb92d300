package commands

import (
	"context"

	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/ports"

	"go.opentelemetry.io/otel/attribute"
)

// MarkReadyForPickupCommandHandler moves a Paid order to ReadyForPickup.
type MarkReadyForPickupCommandHandler struct {
	transitionHandler
}

func NewMarkReadyForPickupCommandHandler(
	uowFactory OrderUoWFactory,
	authorizer ports.Authorizer,
	clock ports.Clock,
) MarkReadyForPickupCommandHandler {
	return MarkReadyForPickupCommandHandler{transitionHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		clock:      clock,
	}}
}

func (h *MarkReadyForPickupCommandHandler) Handle(ctx context.Context, cmd MarkReadyForPickupCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "MarkReadyForPickup")
	span.SetAttributes(attribute.String("order.id", cmd.OrderID().String()))
	defer func() { endSpan(span, err) }()

	o, err := h.run(ctx, cmd.OrderID(), cmd.Vendor(), cmd.Proof(), func(o *order.Order, now uint64) error {
		return o.MarkReadyForPickup(cmd.Vendor(), now)
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("order.status", o.Status().String()))
	return o, nil
}
