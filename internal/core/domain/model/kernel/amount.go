package kernel

import (
	"fmt"
	"math/big"

	"escrow/internal/pkg/errs"
)

// ErrAmountIsNotConstructed is returned when validating a zero-value Amount.
var ErrAmountIsNotConstructed = errs.NewValueIsRequiredError("Amount must be created via NewAmount, AmountFromInt64 or AmountFromString")

var (
	minAmount = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

// Amount is a signed quantity of minor currency units. Values must fit the
// signed 128-bit arithmetic of the ledger. Sign is deliberately not checked.
//
// Amount is immutable: constructors and BigInt copy the underlying integer.
type Amount struct {
	value *big.Int
}

// NewAmount copies v into an Amount after checking the 128-bit bounds.
func NewAmount(v *big.Int) (Amount, error) {
	if v == nil {
		return Amount{}, errs.NewValueIsRequiredError("amount")
	}
	if v.Cmp(minAmount) < 0 || v.Cmp(maxAmount) > 0 {
		return Amount{}, errs.NewValueIsOutOfRangeError("amount", v.String(), minAmount.String(), maxAmount.String())
	}

	return Amount{value: new(big.Int).Set(v)}, nil
}

// AmountFromInt64 never fails: every int64 fits the 128-bit range.
func AmountFromInt64(v int64) Amount {
	return Amount{value: big.NewInt(v)}
}

// AmountFromString parses a base-10 integer such as "1000" or "-25".
func AmountFromString(s string) (Amount, error) {
	if s == "" {
		return Amount{}, errs.NewValueIsRequiredError("amount")
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%q is not a base-10 integer", s))
	}

	return NewAmount(v)
}

// BigInt returns a copy of the underlying integer.
func (a Amount) BigInt() *big.Int {
	if a.value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.value)
}

func (a Amount) String() string {
	if a.value == nil {
		return "0"
	}
	return a.value.String()
}

func (a Amount) IsEqual(other Amount) bool {
	if a.value == nil || other.value == nil {
		return a.value == other.value
	}
	return a.value.Cmp(other.value) == 0
}

func (a Amount) Validate() error {
	if a.value == nil {
		return ErrAmountIsNotConstructed
	}
	return nil
}
