package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a buyer opening a new escrow order.
// The buyer is self-authorizing: the proof must be valid for the buyer.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(orderID, buyer, vendor, kernel.AmountFromInt64(1000), proof)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, authorizer, clock)
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	buyer   kernel.Principal
	vendor  kernel.Principal
	amount  kernel.Amount
	proof   string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates every value object and returns the joined
// errors of the invalid ones. The proof is passed through untouched.
func NewCreateOrderCommand(
	orderID kernel.OrderID,
	buyer kernel.Principal,
	vendor kernel.Principal,
	amount kernel.Amount,
	proof string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		proof: proof,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setBuyer(buyer),
		cmd.setVendor(vendor),
		cmd.setAmount(amount),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.OrderID {
	return c.orderID
}

func (c CreateOrderCommand) Buyer() kernel.Principal {
	return c.buyer
}

func (c CreateOrderCommand) Vendor() kernel.Principal {
	return c.vendor
}

func (c CreateOrderCommand) Amount() kernel.Amount {
	return c.amount
}

// Proof is the buyer's authorization proof.
func (c CreateOrderCommand) Proof() string {
	return c.proof
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setBuyer(buyer kernel.Principal) error {
	if err := buyer.Validate(); err != nil {
		return err
	}
	c.buyer = buyer
	return nil
}

func (c *CreateOrderCommand) setVendor(vendor kernel.Principal) error {
	if err := vendor.Validate(); err != nil {
		return err
	}
	c.vendor = vendor
	return nil
}

func (c *CreateOrderCommand) setAmount(amount kernel.Amount) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	c.amount = amount
	return nil
}
