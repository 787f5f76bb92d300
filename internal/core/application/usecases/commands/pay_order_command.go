package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var (
	ErrPayOrderCommandIsNotConstructed = errors.New(
		"PayOrderCommand must be created via NewPayOrderCommand constructor",
	)
)

// PayOrderCommand is sent by the buyer to fund a Created order.
type PayOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	buyer   kernel.Principal
	proof   string

	guard guard.ConstructorGuard
}

func NewPayOrderCommand(orderID kernel.OrderID, buyer kernel.Principal, proof string) (PayOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), buyer.Validate()); err != nil {
		return PayOrderCommand{}, err
	}

	return PayOrderCommand{
		orderID: orderID,
		buyer:   buyer,
		proof:   proof,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c PayOrderCommand) Validate() error {
	return c.guard.Validate(ErrPayOrderCommandIsNotConstructed)
}

func (c PayOrderCommand) OrderID() kernel.OrderID {
	return c.orderID
}

func (c PayOrderCommand) Buyer() kernel.Principal {
	return c.buyer
}

func (c PayOrderCommand) Proof() string {
	return c.proof
}
