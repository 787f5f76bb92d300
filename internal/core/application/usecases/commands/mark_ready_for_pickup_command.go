package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var (
	ErrMarkReadyForPickupCommandIsNotConstructed = errors.New(
		"MarkReadyForPickupCommand must be created via NewMarkReadyForPickupCommand constructor",
	)
)

// MarkReadyForPickupCommand is sent by the vendor once a Paid order can be collected.
type MarkReadyForPickupCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	vendor  kernel.Principal
	proof   string

	guard guard.ConstructorGuard
}

func NewMarkReadyForPickupCommand(orderID kernel.OrderID, vendor kernel.Principal, proof string) (MarkReadyForPickupCommand, error) {
	if err := errors.Join(orderID.Validate(), vendor.Validate()); err != nil {
		return MarkReadyForPickupCommand{}, err
	}

	return MarkReadyForPickupCommand{
		orderID: orderID,
		vendor:  vendor,
		proof:   proof,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c MarkReadyForPickupCommand) Validate() error {
	return c.guard.Validate(ErrMarkReadyForPickupCommandIsNotConstructed)
}

func (c MarkReadyForPickupCommand) OrderID() kernel.OrderID {
	return c.orderID
}

func (c MarkReadyForPickupCommand) Vendor() kernel.Principal {
	return c.vendor
}

func (c MarkReadyForPickupCommand) Proof() string {
	return c.proof
}
