// Package errs provides the typed errors shared by the escrow service.
//
// Two groups of errors live here:
//   - validation errors raised by value object constructors:
//     ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//   - the rejection kinds of the order lifecycle: ObjectAlreadyExistsError,
//     ObjectNotFoundError, UnauthorizedError, InvalidStateError
//
// Each error type pairs a sentinel (e.g. ErrInvalidState) with a struct that
// carries details, constructors with and without a cause, and an Unwrap method
// returning the sentinel. Callers classify failures with errors.Is against the
// sentinel, which keeps adapters (HTTP status mapping, job logging) decoupled
// from the concrete struct types.
package errs
