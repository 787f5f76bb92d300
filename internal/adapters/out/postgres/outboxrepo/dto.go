// Package outboxrepo persists committed domain events in the outbox_messages
// table until the relay has delivered them.
package outboxrepo

import (
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/outbox"

	"github.com/google/uuid"
)

// MessageDTO is one row of the outbox. Sequence gives the insertion order
// the relay follows.
type MessageDTO struct {
	Sequence      int64     `gorm:"primaryKey;autoIncrement"`
	ID            uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	OrderID       []byte    `gorm:"type:bytea;not null;index"`
	Topic         string    `gorm:"type:varchar(64);not null"`
	Payload       []byte    `gorm:"type:bytea;not null"`
	OccurredAt    int64     `gorm:"not null"`
	Status        int       `gorm:"not null;index"`
	AttemptCount  int       `gorm:"not null"`
	LastError     string    `gorm:"type:text"`
	NextAttemptAt time.Time `gorm:"not null"`
}

func (MessageDTO) TableName() string {
	return "outbox_messages"
}

func fromDomain(m *outbox.Message) MessageDTO {
	occurredAt := int64(m.OccurredAt()) //nolint:gosec // logical timestamps fit in int64
	return MessageDTO{
		Sequence:      m.Sequence(),
		ID:            m.ID().Bytes(),
		OrderID:       m.OrderID().Bytes(),
		Topic:         m.Topic().String(),
		Payload:       m.Payload(),
		OccurredAt:    occurredAt,
		Status:        int(m.Status()),
		AttemptCount:  m.AttemptCount(),
		LastError:     m.LastError(),
		NextAttemptAt: m.NextAttemptAt().UTC(),
	}
}

func toDomain(dto MessageDTO) (*outbox.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.OrderIDFromBytes(dto.OrderID)
	if err != nil {
		return nil, err
	}

	return outbox.RestoreMessage(
		id,
		orderID,
		order.Topic(dto.Topic),
		dto.Payload,
		uint64(max(dto.OccurredAt, 0)),
		outbox.Status(dto.Status),
		dto.AttemptCount,
		dto.LastError,
		dto.NextAttemptAt,
		dto.Sequence,
	)
}
