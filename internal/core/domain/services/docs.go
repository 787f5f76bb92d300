// Package services provides domain services that span more than one aggregate
// of the escrow system.
//
// The package includes:
//   - SettlementPlanner: decides which movement of escrowed funds a committed
//     order event implies
package services
