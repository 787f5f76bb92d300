// Package kernel provides the value objects shared across the escrow domain.
//
// The package includes:
//   - OrderID: the 32-byte identifier of an escrow order
//   - Principal: the opaque handle of a buyer, vendor or caller
//   - Amount: a signed minor-unit quantity bounded to 128 bits
//   - UUID: identifiers of domain events and outbox messages
//
// All value objects are immutable, compare by value and reject their zero
// value in Validate, so aggregates can check that every field was built
// through a constructor.
package kernel
