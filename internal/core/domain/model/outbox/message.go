package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/pkg/errs"
)

const (
	// MaxAttempts is the number of failed deliveries after which a message
	// is dead-lettered.
	MaxAttempts = 8

	// MaxBackoff caps the delay between two delivery attempts.
	MaxBackoff = 5 * time.Minute

	maxLastErrorLength = 1024
)

var ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage or RestoreMessage constructor")

// Message is one committed domain event waiting for, or done with, relay.
type Message struct {
	id            kernel.UUID
	orderID       kernel.OrderID
	topic         order.Topic
	payload       []byte
	occurredAt    uint64
	status        Status
	attemptCount  int
	lastError     string
	nextAttemptAt time.Time
	sequence      int64

	isConstructed bool
}

// NewMessage serializes e into a pending message that is due immediately.
func NewMessage(e order.Event, now time.Time) (*Message, error) {
	if err := e.ID().Validate(); err != nil {
		return nil, err
	}
	if err := e.OrderID().Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(e.Payload())
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.Topic(), err)
	}

	return &Message{
		id:            e.ID(),
		orderID:       e.OrderID(),
		topic:         e.Topic(),
		payload:       payload,
		occurredAt:    e.OccurredAt(),
		status:        Pending,
		nextAttemptAt: now,
		isConstructed: true,
	}, nil
}

// RestoreMessage rebuilds a Message from persisted state.
func RestoreMessage(
	id kernel.UUID,
	orderID kernel.OrderID,
	topic order.Topic,
	payload []byte,
	occurredAt uint64,
	status Status,
	attemptCount int,
	lastError string,
	nextAttemptAt time.Time,
	sequence int64,
) (*Message, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if topic == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}
	if attemptCount < 0 {
		return nil, errs.NewValueIsOutOfRangeError("attempt count", attemptCount, 0, MaxAttempts)
	}

	return &Message{
		id:            id,
		orderID:       orderID,
		topic:         topic,
		payload:       append([]byte(nil), payload...),
		occurredAt:    occurredAt,
		status:        status,
		attemptCount:  attemptCount,
		lastError:     lastError,
		nextAttemptAt: nextAttemptAt,
		sequence:      sequence,
		isConstructed: true,
	}, nil
}

func (m *Message) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMessageIsNotConstructed
	}
	return nil
}

// ID is the event id. It is also the idempotency key of any settlement the
// message triggers.
func (m *Message) ID() kernel.UUID {
	return m.id
}

func (m *Message) OrderID() kernel.OrderID {
	return m.orderID
}

func (m *Message) Topic() order.Topic {
	return m.topic
}

// Payload returns a copy of the JSON encoded event payload.
func (m *Message) Payload() []byte {
	return append([]byte(nil), m.payload...)
}

func (m *Message) OccurredAt() uint64 {
	return m.occurredAt
}

func (m *Message) Status() Status {
	return m.status
}

func (m *Message) AttemptCount() int {
	return m.attemptCount
}

func (m *Message) LastError() string {
	return m.lastError
}

func (m *Message) NextAttemptAt() time.Time {
	return m.nextAttemptAt
}

// Sequence is the commit order assigned by the store. Zero until persisted.
func (m *Message) Sequence() int64 {
	return m.sequence
}

// AssignSequence is called by stores when the message is first persisted.
func (m *Message) AssignSequence(seq int64) {
	m.sequence = seq
}

// IsDue reports whether a pending message may be attempted at now.
func (m *Message) IsDue(now time.Time) bool {
	return m.status == Pending && !m.nextAttemptAt.After(now)
}

// MarkPublished records a successful delivery.
func (m *Message) MarkPublished() error {
	if m.status != Pending {
		return errs.NewInvalidStateErrorWithCause(
			"message status",
			fmt.Errorf("%s is not a valid status to publish", m.status),
		)
	}
	m.status = Published
	m.lastError = ""
	return nil
}

// RecordFailure counts a failed delivery. The message is retried after an
// exponential backoff (1s, 2s, 4s ... capped at MaxBackoff) until MaxAttempts
// failures, after which it becomes Dead.
func (m *Message) RecordFailure(cause error, now time.Time) error {
	if m.status != Pending {
		return errs.NewInvalidStateErrorWithCause(
			"message status",
			fmt.Errorf("%s is not a valid status to retry", m.status),
		)
	}

	m.attemptCount++
	m.lastError = truncate(cause.Error(), maxLastErrorLength)

	if m.attemptCount >= MaxAttempts {
		m.status = Dead
		return nil
	}

	m.nextAttemptAt = now.Add(Backoff(m.attemptCount))
	return nil
}

// Backoff returns the delay before the attempt following the given number of
// failures.
func Backoff(failures int) time.Duration {
	if failures <= 0 {
		return 0
	}
	if failures > 20 {
		return MaxBackoff
	}
	return min(time.Second<<(failures-1), MaxBackoff)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
