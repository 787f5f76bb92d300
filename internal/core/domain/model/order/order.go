package order

import (
	"errors"
	"fmt"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Order is an escrowed purchase between a buyer and a vendor for a fixed
// amount. It is the aggregate root of the escrow domain.
//
// Order follows these invariants:
//   - id, buyer, vendor, amount and createdAt are fixed at creation
//   - status only moves along the transitions defined by Status
//   - updatedAt never decreases and never precedes createdAt
//   - every transition is checked for the caller's role before its status
//     precondition, and a rejected transition leaves the order untouched
//
// Each successful transition stages domain events on the aggregate. The unit
// of work drains them into the outbox when it commits.
type Order struct {
	// id is the caller-chosen 32-byte identifier
	id kernel.OrderID

	// buyer pays for the order and confirms receipt
	buyer kernel.Principal

	// vendor prepares the goods and receives the funds
	vendor kernel.Principal

	// amount is held in escrow between payment and settlement
	amount kernel.Amount

	// status is the current lifecycle state
	status Status

	// createdAt and updatedAt are logical ledger timestamps
	createdAt uint64
	updatedAt uint64

	// domainEvents are raised but not yet committed
	domainEvents []Event

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder opens a new escrow order in Created status and raises
// order_created.
//
// Parameters:
//   - id: identifier chosen by the buyer
//   - buyer, vendor: the two parties; they never change afterwards
//   - amount: minor units, taken as given (no sign check)
//   - now: logical timestamp used for both createdAt and updatedAt
//
// Returns the joined validation errors of every invalid argument.
//
// Example:
//
//	o, err := order.NewOrder(id, buyer, vendor, kernel.AmountFromInt64(1000), clock.Now())
//	if err != nil {
//	    return err
//	}
//	_ = uow.OrderRepository().Add(ctx, o)
func NewOrder(
	id kernel.OrderID,
	buyer kernel.Principal,
	vendor kernel.Principal,
	amount kernel.Amount,
	now uint64,
) (*Order, error) {
	o := &Order{
		status:        Created,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setBuyer(buyer),
		o.setVendor(vendor),
		o.setAmount(amount),
	); err != nil {
		return nil, err
	}

	o.raise(TopicOrderCreated, OrderCreated{
		OrderID: o.id.String(),
		Buyer:   o.buyer.String(),
		Vendor:  o.vendor.String(),
		Amount:  o.amount.String(),
	})

	return o, nil
}

// RestoreOrder rebuilds an Order from persisted state without raising events.
// It runs the same field validation as NewOrder plus status and timestamp
// consistency checks, so corrupt rows are refused rather than loaded.
func RestoreOrder(
	id kernel.OrderID,
	buyer kernel.Principal,
	vendor kernel.Principal,
	amount kernel.Amount,
	status Status,
	createdAt uint64,
	updatedAt uint64,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setBuyer(buyer),
		o.setVendor(vendor),
		o.setAmount(amount),
		o.setStatus(status),
		o.setTimestamps(createdAt, updatedAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was built through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.OrderID {
	return o.id
}

func (o *Order) Buyer() kernel.Principal {
	return o.buyer
}

func (o *Order) Vendor() kernel.Principal {
	return o.vendor
}

// Amount returns the escrowed amount. Amount is immutable, so the caller
// cannot alter the order through it.
func (o *Order) Amount() kernel.Amount {
	return o.amount
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() uint64 {
	return o.createdAt
}

func (o *Order) UpdatedAt() uint64 {
	return o.updatedAt
}

// IsParty reports whether p is the buyer or the vendor of the order.
func (o *Order) IsParty(p kernel.Principal) bool {
	return o.buyer.IsEqual(p) || o.vendor.IsEqual(p)
}

// DomainEvents returns the events raised since the order was loaded, in the
// order they were raised.
func (o *Order) DomainEvents() []Event {
	events := make([]Event, len(o.domainEvents))
	copy(events, o.domainEvents)
	return events
}

// ClearDomainEvents drops staged events once they have been persisted.
func (o *Order) ClearDomainEvents() {
	o.domainEvents = nil
}

// Pay moves the order from Created to Paid on behalf of its buyer and raises
// order_paid.
//
// Returns:
//   - UnauthorizedError if buyer is not the order's buyer
//   - InvalidStateError if the order is not in Created status
func (o *Order) Pay(buyer kernel.Principal, now uint64) error {
	if err := o.requireBuyer(buyer); err != nil {
		return err
	}

	newStatus, err := o.status.Pay()
	if err != nil {
		return err
	}

	o.transition(newStatus, now)
	o.raise(TopicOrderPaid, OrderPaid{
		OrderID: o.id.String(),
		Buyer:   o.buyer.String(),
		Amount:  o.amount.String(),
	})
	return nil
}

// MarkReadyForPickup moves the order from Paid to ReadyForPickup on behalf of
// its vendor and raises order_ready.
//
// Returns:
//   - UnauthorizedError if vendor is not the order's vendor
//   - InvalidStateError if the order is not in Paid status
func (o *Order) MarkReadyForPickup(vendor kernel.Principal, now uint64) error {
	if err := o.requireVendor(vendor); err != nil {
		return err
	}

	newStatus, err := o.status.MarkReadyForPickup()
	if err != nil {
		return err
	}

	o.transition(newStatus, now)
	o.raise(TopicOrderReady, OrderReady{
		OrderID: o.id.String(),
		Vendor:  o.vendor.String(),
	})
	return nil
}

// Complete moves the order from ReadyForPickup to Completed on behalf of its
// buyer and raises order_completed, which releases the funds to the vendor
// once relayed.
//
// Returns:
//   - UnauthorizedError if buyer is not the order's buyer
//   - InvalidStateError if the order is not in ReadyForPickup status
func (o *Order) Complete(buyer kernel.Principal, now uint64) error {
	if err := o.requireBuyer(buyer); err != nil {
		return err
	}

	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.transition(newStatus, now)
	o.raise(TopicOrderCompleted, OrderCompleted{
		OrderID: o.id.String(),
		Buyer:   o.buyer.String(),
		Vendor:  o.vendor.String(),
		Amount:  o.amount.String(),
	})
	return nil
}

// Cancel abandons the order on behalf of either party.
//
// The outcome is derived from the status at the moment of cancellation:
//   - Created: status becomes Cancelled, raises order_cancelled
//   - Paid or ReadyForPickup: status becomes Refunded, raises order_cancelled
//     followed by order_refunded, which returns the funds to the buyer once
//     relayed
//
// Returns:
//   - UnauthorizedError if caller is neither buyer nor vendor
//   - InvalidStateError if the order is already Completed, Cancelled or Refunded
//
// Example:
//
//	if err := o.Cancel(vendor, clock.Now()); err != nil {
//	    return err
//	}
//	refunded := o.Status() == order.Refunded
func (o *Order) Cancel(caller kernel.Principal, now uint64) error {
	if err := caller.Validate(); err != nil {
		return err
	}
	if !o.IsParty(caller) {
		return errs.NewUnauthorizedErrorWithCause(
			"caller",
			fmt.Errorf("%s is neither buyer nor vendor of order %s", caller, o.id),
		)
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.transition(newStatus, now)
	o.raise(TopicOrderCancelled, OrderCancelled{
		OrderID: o.id.String(),
		Caller:  caller.String(),
	})

	if newStatus == Refunded {
		o.raise(TopicOrderRefunded, OrderRefunded{
			OrderID: o.id.String(),
			Buyer:   o.buyer.String(),
			Amount:  o.amount.String(),
		})
	}
	return nil
}

func (o *Order) requireBuyer(p kernel.Principal) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !o.buyer.IsEqual(p) {
		return errs.NewUnauthorizedErrorWithCause(
			"buyer",
			fmt.Errorf("%s is not the buyer of order %s", p, o.id),
		)
	}
	return nil
}

func (o *Order) requireVendor(p kernel.Principal) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !o.vendor.IsEqual(p) {
		return errs.NewUnauthorizedErrorWithCause(
			"vendor",
			fmt.Errorf("%s is not the vendor of order %s", p, o.id),
		)
	}
	return nil
}

// transition applies a status change. updatedAt is clamped so a clock that
// steps backwards cannot make it decrease.
func (o *Order) transition(status Status, now uint64) {
	o.status = status
	if now > o.updatedAt {
		o.updatedAt = now
	}
}

// raise stages an event stamped with the order's current updatedAt.
func (o *Order) raise(topic Topic, payload any) {
	o.domainEvents = append(o.domainEvents, newEvent(o.id, topic, payload, o.updatedAt))
}

func (o *Order) setID(id kernel.OrderID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBuyer(buyer kernel.Principal) error {
	if err := buyer.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("buyer", err)
	}
	o.buyer = buyer
	return nil
}

func (o *Order) setVendor(vendor kernel.Principal) error {
	if err := vendor.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("vendor", err)
	}
	o.vendor = vendor
	return nil
}

func (o *Order) setAmount(amount kernel.Amount) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	o.amount = amount
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setTimestamps(createdAt, updatedAt uint64) error {
	if updatedAt < createdAt {
		return errs.NewValueIsInvalidErrorWithCause(
			"updated at is invalid",
			fmt.Errorf("%d is before created at %d", updatedAt, createdAt),
		)
	}
	o.createdAt = createdAt
	o.updatedAt = updatedAt
	return nil
}
