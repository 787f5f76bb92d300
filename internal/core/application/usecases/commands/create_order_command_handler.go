package commands

import (
	"context"

	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/ports"

	"go.opentelemetry.io/otel/attribute"
)

// CreateOrderCommandHandler opens escrow orders.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, authorizer, clock)
//	cmd, _ := NewCreateOrderCommand(orderID, buyer, vendor, amount, proof)
//
//	created, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectAlreadyExists) {
//	    // the id is taken, the existing order is unchanged
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	authorizer ports.Authorizer
	clock      ports.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	authorizer ports.Authorizer,
	clock ports.Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		clock:      clock,
	}
}

// Handle authorizes the buyer, then inserts the order in Created status
// together with its order_created event. A duplicate id fails with
// ObjectAlreadyExistsError and writes nothing.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "CreateOrder")
	span.SetAttributes(attribute.String("order.id", cmd.OrderID().String()))
	defer func() { endSpan(span, err) }()

	if err = authorize(ctx, h.authorizer, cmd.Buyer(), cmd.Proof()); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	created, err := order.NewOrder(cmd.OrderID(), cmd.Buyer(), cmd.Vendor(), cmd.Amount(), h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("order.status", created.Status().String()))
	return created, nil
}
