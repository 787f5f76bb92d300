package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var (
	ErrCompleteOrderCommandIsNotConstructed = errors.New(
		"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
	)
)

// CompleteOrderCommand is sent by the buyer after collecting the goods. It releases the escrow to the vendor.
type CompleteOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	buyer   kernel.Principal
	proof   string

	guard guard.ConstructorGuard
}

func NewCompleteOrderCommand(orderID kernel.OrderID, buyer kernel.Principal, proof string) (CompleteOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), buyer.Validate()); err != nil {
		return CompleteOrderCommand{}, err
	}

	return CompleteOrderCommand{
		orderID: orderID,
		buyer:   buyer,
		proof:   proof,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}

func (c CompleteOrderCommand) OrderID() kernel.OrderID {
	return c.orderID
}

func (c CompleteOrderCommand) Buyer() kernel.Principal {
	return c.buyer
}

func (c CompleteOrderCommand) Proof() string {
	return c.proof
}
