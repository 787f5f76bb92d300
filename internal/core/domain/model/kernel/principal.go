package kernel

import (
	"fmt"
	"unicode"

	"escrow/internal/pkg/errs"
)

// MaxPrincipalLength bounds the textual form of a principal.
const MaxPrincipalLength = 256

// ErrPrincipalIsNotConstructed is returned when validating a zero-value Principal.
var ErrPrincipalIsNotConstructed = errs.NewValueIsRequiredError("Principal must be created via NewPrincipal")

// Principal is the opaque handle of a party acting on the ledger: a buyer, a
// vendor or the caller of a cancellation. The engine only compares principals
// for equality; what the handle encodes is up to the Authorizer (the JWT
// authorizer reads it as a hex-encoded Ed25519 public key).
type Principal struct {
	value string
}

// NewPrincipal accepts a non-empty handle of at most MaxPrincipalLength
// characters containing no whitespace or control characters.
func NewPrincipal(value string) (Principal, error) {
	if value == "" {
		return Principal{}, errs.NewValueIsRequiredError("principal")
	}
	if len(value) > MaxPrincipalLength {
		return Principal{}, errs.NewValueIsOutOfRangeError("principal length", len(value), 1, MaxPrincipalLength)
	}
	for _, r := range value {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return Principal{}, errs.NewValueIsInvalidErrorWithCause(
				"principal",
				fmt.Errorf("%q contains whitespace or control characters", value),
			)
		}
	}

	return Principal{value: value}, nil
}

func (p Principal) String() string {
	return p.value
}

func (p Principal) IsEqual(other Principal) bool {
	return p.value == other.value
}

func (p Principal) Validate() error {
	if p.value == "" {
		return ErrPrincipalIsNotConstructed
	}
	return nil
}
