package services

import (
	"encoding/json"
	"fmt"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/outbox"
)

// SettlementKind tells in which direction escrowed funds move.
type SettlementKind int

const (
	// Release pays the escrowed amount out to the vendor.
	Release SettlementKind = iota + 1

	// Refund returns the escrowed amount to the buyer.
	Refund
)

func (k SettlementKind) String() string {
	switch k {
	case Release:
		return "release"
	case Refund:
		return "refund"
	default:
		return "unknown"
	}
}

// Settlement is one movement of escrowed funds. IdempotencyKey is the id of
// the event that caused it, so redelivering the event never moves funds twice.
type Settlement struct {
	Kind           SettlementKind
	IdempotencyKey string
	OrderID        kernel.OrderID
	To             kernel.Principal
	Amount         kernel.Amount
}

// SettlementPlanner maps committed order events to settlements:
//   - order_completed releases the amount to the vendor
//   - order_refunded refunds the amount to the buyer
//
// Every other topic settles nothing.
type SettlementPlanner struct{}

func NewSettlementPlanner() SettlementPlanner {
	return SettlementPlanner{}
}

// Plan returns the settlement m implies, and false when it implies none.
func (SettlementPlanner) Plan(m *outbox.Message) (Settlement, bool, error) {
	if m == nil {
		return Settlement{}, false, nil
	}

	switch m.Topic() {
	case order.TopicOrderCompleted:
		var payload order.OrderCompleted
		if err := json.Unmarshal(m.Payload(), &payload); err != nil {
			return Settlement{}, false, fmt.Errorf("decode %s payload: %w", m.Topic(), err)
		}
		s, err := newSettlement(Release, m, payload.Vendor, payload.Amount)
		return s, err == nil, err

	case order.TopicOrderRefunded:
		var payload order.OrderRefunded
		if err := json.Unmarshal(m.Payload(), &payload); err != nil {
			return Settlement{}, false, fmt.Errorf("decode %s payload: %w", m.Topic(), err)
		}
		s, err := newSettlement(Refund, m, payload.Buyer, payload.Amount)
		return s, err == nil, err

	default:
		return Settlement{}, false, nil
	}
}

func newSettlement(kind SettlementKind, m *outbox.Message, to, amount string) (Settlement, error) {
	principal, err := kernel.NewPrincipal(to)
	if err != nil {
		return Settlement{}, err
	}
	value, err := kernel.AmountFromString(amount)
	if err != nil {
		return Settlement{}, err
	}

	return Settlement{
		Kind:           kind,
		IdempotencyKey: m.ID().String(),
		OrderID:        m.OrderID(),
		To:             principal,
		Amount:         value,
	}, nil
}
