// Package outbox models the durable event log of the escrow service.
//
// A Message is the persisted form of an order.Event. Messages are written in
// the same commit as the order that raised them and relayed afterwards, so
// observers never see an event whose transition was rolled back.
//
// Lifecycle:
//
//	Pending ──publish ok──> Published
//	   │
//	   └── failure ──> Pending (retry with backoff) ── MaxAttempts ──> Dead
package outbox
