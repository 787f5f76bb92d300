package outboxrepo

import (
	"context"

	"escrow/internal/core/domain/model/outbox"
	"escrow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db       *gorm.DB
	lockRows bool
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// WithRowLocks returns a repository whose GetPending locks the returned rows
// until the surrounding transaction ends.
func (r *GormOutboxRepository) WithRowLocks() *GormOutboxRepository {
	locked := *r
	locked.lockRows = true
	return &locked
}

// Add appends the message and stores the assigned sequence on it.
func (r *GormOutboxRepository) Add(ctx context.Context, message *outbox.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	dto := fromDomain(message)
	dto.Sequence = 0
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	message.AssignSequence(dto.Sequence)
	return nil
}

// Update writes the relay state of the message. Topic and payload never
// change.
func (r *GormOutboxRepository) Update(ctx context.Context, message *outbox.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	dto := fromDomain(message)
	result := r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":          dto.Status,
			"attempt_count":   dto.AttemptCount,
			"last_error":      dto.LastError,
			"next_attempt_at": dto.NextAttemptAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundErrorWithCause("outbox message", message.ID().String(), gorm.ErrRecordNotFound)
	}
	return nil
}

// GetPending returns the oldest pending messages. Rows are locked with a
// plain FOR UPDATE so concurrent relays wait for each other instead of
// delivering one order's events out of order.
func (r *GormOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	query := r.db.WithContext(ctx)
	if r.lockRows {
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var dtos []MessageDTO
	err := query.
		Where("status = ?", int(outbox.Pending)).
		Order("sequence").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*outbox.Message, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}
