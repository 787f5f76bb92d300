// Package order implements the escrow order aggregate of the food-rescue
// marketplace.
//
// The package includes:
//   - Order: the aggregate root holding parties, amount, status and timestamps
//   - Status: the lifecycle state machine
//   - Event: domain events raised by transitions, with one payload type per topic
//
// Key business rules:
//   - buyer and vendor alternate: the buyer pays, the vendor marks the order
//     ready, the buyer completes
//   - either party may cancel an unresolved order; the refund decision is
//     derived from the status at cancellation, never chosen by the caller
//   - Completed, Cancelled and Refunded are final
//   - role checks run before status checks, so a stranger always gets
//     Unauthorized regardless of the order's state
package order
