package kernel

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"escrow/internal/pkg/errs"
)

// OrderIDSize is the length in bytes of an order identifier.
const OrderIDSize = 32

// ErrOrderIDIsNotConstructed is returned when validating a zero-value OrderID.
var ErrOrderIDIsNotConstructed = errs.NewValueIsRequiredError(
	"OrderID must be created via OrderIDFromBytes, OrderIDFromHex or NewRandomOrderID",
)

// OrderID is the 32-byte opaque identifier of an escrow order. It is chosen
// by the buyer at creation time and travels as 64 lowercase hex characters.
//
// OrderID is a comparable value type and can be used as a map key.
type OrderID struct {
	id            [OrderIDSize]byte
	isConstructed bool
}

// OrderIDFromBytes copies b into a new OrderID. b must be exactly 32 bytes.
func OrderIDFromBytes(b []byte) (OrderID, error) {
	if len(b) != OrderIDSize {
		return OrderID{}, errs.NewValueIsOutOfRangeError("order id length", len(b), OrderIDSize, OrderIDSize)
	}

	var id OrderID
	copy(id.id[:], b)
	id.isConstructed = true
	return id, nil
}

// OrderIDFromHex decodes the 64 hex character representation of an OrderID.
// Upper and lower case digits are accepted.
func OrderIDFromHex(s string) (OrderID, error) {
	if s == "" {
		return OrderID{}, errs.NewValueIsRequiredError("order id")
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return OrderID{}, errs.NewValueIsInvalidErrorWithCause("order id", fmt.Errorf("%q is not hex encoded: %w", s, err))
	}

	return OrderIDFromBytes(b)
}

// NewRandomOrderID generates an identifier from crypto/rand. Mostly useful for
// tests and tooling; production identifiers come from the buyer.
func NewRandomOrderID() OrderID {
	var b [OrderIDSize]byte
	_, _ = rand.Read(b[:])
	return OrderID{id: b, isConstructed: true}
}

// String returns the lowercase hex form.
func (o OrderID) String() string {
	return hex.EncodeToString(o.id[:])
}

// Bytes returns a copy of the raw identifier.
func (o OrderID) Bytes() []byte {
	b := make([]byte, OrderIDSize)
	copy(b, o.id[:])
	return b
}

func (o OrderID) IsEqual(other OrderID) bool {
	return o.id == other.id
}

// Compare orders identifiers bytewise and returns -1, 0 or +1.
func (o OrderID) Compare(other OrderID) int {
	for i := range o.id {
		switch {
		case o.id[i] < other.id[i]:
			return -1
		case o.id[i] > other.id[i]:
			return 1
		}
	}
	return 0
}

func (o OrderID) Validate() error {
	if !o.isConstructed {
		return ErrOrderIDIsNotConstructed
	}
	return nil
}
