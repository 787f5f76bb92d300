package commands

import (
	"context"

	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/ports"

	"go.opentelemetry.io/otel/attribute"
)

// PayOrderCommandHandler moves a Created order to Paid.
type PayOrderCommandHandler struct {
	transitionHandler
}

func NewPayOrderCommandHandler(
	uowFactory OrderUoWFactory,
	authorizer ports.Authorizer,
	clock ports.Clock,
) PayOrderCommandHandler {
	return PayOrderCommandHandler{transitionHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		clock:      clock,
	}}
}

func (h *PayOrderCommandHandler) Handle(ctx context.Context, cmd PayOrderCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "PayOrder")
	span.SetAttributes(attribute.String("order.id", cmd.OrderID().String()))
	defer func() { endSpan(span, err) }()

	o, err := h.run(ctx, cmd.OrderID(), cmd.Buyer(), cmd.Proof(), func(o *order.Order, now uint64) error {
		return o.Pay(cmd.Buyer(), now)
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("order.status", o.Status().String()))
	return o, nil
}
