package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var (
	ErrCancelOrderCommandIsNotConstructed = errors.New(
		"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
	)
)

// CancelOrderCommand is sent by either party. A Created order is cancelled, a Paid or ReadyForPickup order is refunded.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	caller  kernel.Principal
	proof   string

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.OrderID, caller kernel.Principal, proof string) (CancelOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), caller.Validate()); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		orderID: orderID,
		caller:  caller,
		proof:   proof,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.OrderID {
	return c.orderID
}

func (c CancelOrderCommand) Caller() kernel.Principal {
	return c.caller
}

func (c CancelOrderCommand) Proof() string {
	return c.proof
}
