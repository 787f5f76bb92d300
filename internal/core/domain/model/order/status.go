package order

import (
	"fmt"

	"escrow/internal/pkg/errs"
)

// Status is the lifecycle state of an escrow order.
//
// State transitions:
//
//	Created ──pay──> Paid ──ready──> ReadyForPickup ──complete──> Completed
//	   │              │                    │
//	 cancel         cancel               cancel
//	   │              └────────┬───────────┘
//	   v                       v
//	Cancelled               Refunded
//
// Completed, Refunded and Cancelled admit no further transitions. Cancelling
// an order that was never paid ends in Cancelled; cancelling a paid order ends
// in Refunded.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Created is the initial status. The buyer has committed to the order
	// but no funds are held yet.
	Created

	// Paid means the buyer's funds are held in escrow.
	Paid

	// ReadyForPickup means the vendor has prepared the goods.
	ReadyForPickup

	// Completed means the buyer confirmed receipt and the funds are released
	// to the vendor. Final.
	Completed

	// Cancelled means the order was abandoned before any payment. Final.
	Cancelled

	// Refunded means a paid order was cancelled and the funds go back to the
	// buyer. Final.
	Refunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Created:        "Created",
		Paid:           "Paid",
		ReadyForPickup: "ReadyForPickup",
		Completed:      "Completed",
		Cancelled:      "Cancelled",
		Refunded:       "Refunded",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Created:        "Created",
		Paid:           "Paid",
		ReadyForPickup: "ReadyForPickup",
		Completed:      "Completed",
		Cancelled:      "Cancelled",
		Refunded:       "Refunded",
	}
}

// StatusFromString parses the name produced by String. Unknown is rejected.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that s is one of the six lifecycle states. It is used when
// statuses arrive from persistence.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer. Values outside the enum print as "Unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no transition can leave s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Refunded
}

// Pay transitions Created -> Paid.
func (s Status) Pay() (Status, error) {
	if s != Created {
		return Unknown, invalidTransition(s, "pay")
	}
	return Paid, nil
}

// MarkReadyForPickup transitions Paid -> ReadyForPickup.
func (s Status) MarkReadyForPickup() (Status, error) {
	if s != Paid {
		return Unknown, invalidTransition(s, "mark ready for pickup")
	}
	return ReadyForPickup, nil
}

// Complete transitions ReadyForPickup -> Completed.
func (s Status) Complete() (Status, error) {
	if s != ReadyForPickup {
		return Unknown, invalidTransition(s, "complete")
	}
	return Completed, nil
}

// Cancel resolves a cancellation from the current status. The outcome depends
// only on whether funds are held:
//   - Created -> Cancelled
//   - Paid, ReadyForPickup -> Refunded
//
// Every other status, including Cancelled itself, is rejected.
func (s Status) Cancel() (Status, error) {
	switch s {
	case Created:
		return Cancelled, nil
	case Paid, ReadyForPickup:
		return Refunded, nil
	default:
		return Unknown, invalidTransition(s, "cancel")
	}
}

func invalidTransition(s Status, action string) error {
	return errs.NewInvalidStateErrorWithCause(
		"status",
		fmt.Errorf("%s is not a valid status to %s", s.String(), action),
	)
}
