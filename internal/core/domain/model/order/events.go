package order

import (
	"escrow/internal/core/domain/model/kernel"
)

// Topic names the kind of a domain event. The values are part of the
// contract with external observers and must not change.
type Topic string

const (
	TopicOrderCreated   Topic = "order_created"
	TopicOrderPaid      Topic = "order_paid"
	TopicOrderReady     Topic = "order_ready"
	TopicOrderCompleted Topic = "order_completed"
	TopicOrderCancelled Topic = "order_cancelled"
	TopicOrderRefunded  Topic = "order_refunded"
)

func (t Topic) String() string {
	return string(t)
}

// Event is a fact recorded by the Order aggregate during a transition. Events
// are staged on the aggregate and written to the outbox by the unit of work
// in the same commit as the order itself.
type Event struct {
	id         kernel.UUID
	orderID    kernel.OrderID
	topic      Topic
	payload    any
	occurredAt uint64
}

func newEvent(orderID kernel.OrderID, topic Topic, payload any, occurredAt uint64) Event {
	return Event{
		id:         kernel.NewUUID(),
		orderID:    orderID,
		topic:      topic,
		payload:    payload,
		occurredAt: occurredAt,
	}
}

func (e Event) ID() kernel.UUID {
	return e.id
}

func (e Event) OrderID() kernel.OrderID {
	return e.orderID
}

func (e Event) Topic() Topic {
	return e.topic
}

// Payload returns one of the Order* payload structs below, matching Topic.
func (e Event) Payload() any {
	return e.payload
}

// OccurredAt is the logical timestamp of the transition that raised the event.
func (e Event) OccurredAt() uint64 {
	return e.occurredAt
}

// Payloads carry identifiers and amounts in their textual form so they can be
// serialized without further conversion.
type (
	OrderCreated struct {
		OrderID string `json:"order_id"`
		Buyer   string `json:"buyer"`
		Vendor  string `json:"vendor"`
		Amount  string `json:"amount"`
	}

	OrderPaid struct {
		OrderID string `json:"order_id"`
		Buyer   string `json:"buyer"`
		Amount  string `json:"amount"`
	}

	OrderReady struct {
		OrderID string `json:"order_id"`
		Vendor  string `json:"vendor"`
	}

	OrderCompleted struct {
		OrderID string `json:"order_id"`
		Buyer   string `json:"buyer"`
		Vendor  string `json:"vendor"`
		Amount  string `json:"amount"`
	}

	OrderCancelled struct {
		OrderID string `json:"order_id"`
		Caller  string `json:"caller"`
	}

	OrderRefunded struct {
		OrderID string `json:"order_id"`
		Buyer   string `json:"buyer"`
		Amount  string `json:"amount"`
	}
)
