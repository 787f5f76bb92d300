// Package postgres implements the escrow unit of work on PostgreSQL with
// GORM.
//
// A GormUnitOfWork wraps one database transaction. Orders written through its
// repository are tracked, and Commit appends their pending domain events to
// the outbox inside the same transaction before committing, so an order
// change and its events become durable together. Commit also issues a
// pg_notify on OutboxChannel, which the Notifier turns into an immediate
// relay run.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	o, err := uow.OrderRepository().Get(ctx, id) // row locked until commit
//	if err != nil {
//	    return err
//	}
//	if err := o.Pay(buyer, clock.Now()); err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance belongs to one goroutine. Concurrent transitions on
// the same order serialize on the row lock taken by Get.
package postgres

import (
	"context"
	"fmt"
	"time"

	"escrow/internal/adapters/out/postgres/orderrepo"
	"escrow/internal/adapters/out/postgres/outboxrepo"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/outbox"
	"escrow/internal/core/ports"

	"gorm.io/gorm"
)

// OutboxChannel is the LISTEN/NOTIFY channel signalled when new outbox
// messages are committed.
const OutboxChannel = "escrow_outbox"

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool.
type GormUnitOfWorkFactory struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, now: time.Now}
}

// Create produces a new UnitOfWork with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		now:               f.now,
		trackedAggregates: make([]*order.Order, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the orders
// modified within it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	now               func() time.Time
	trackedAggregates []*order.Order
}

// Begin opens the transaction. Repeated calls reuse it.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit writes the events of every tracked order to the outbox, signals
// the outbox channel and commits. On any failure the transaction is rolled
// back.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	written, err := uow.flushDomainEvents(ctx)
	if err == nil && written > 0 {
		err = uow.tx.WithContext(ctx).Exec("SELECT pg_notify(?, '')", OutboxChannel).Error
	}
	if err != nil {
		_ = uow.tx.Rollback().Error
		uow.reset()
		return err
	}

	err = uow.tx.Commit().Error
	uow.reset()
	return err
}

// Rollback discards the transaction.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.reset()
	return err
}

// OrderRepository returns a repository bound to the active transaction, with
// row locks on Get. Without a transaction it runs on the pool directly.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	if uow.tx == nil {
		return orderrepo.NewGormOrderRepository(uow.db, uow)
	}
	return orderrepo.NewGormOrderRepository(uow.tx, uow).WithRowLocks()
}

// OutboxRepository returns a repository bound to the active transaction.
func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	if uow.tx == nil {
		return outboxrepo.NewGormOutboxRepository(uow.db)
	}
	return outboxrepo.NewGormOutboxRepository(uow.tx).WithRowLocks()
}

// TrackAggregate registers an order written within this unit of work. An
// order tracked twice is flushed once.
func (uow *GormUnitOfWork) TrackAggregate(aggregate *order.Order) {
	for _, tracked := range uow.trackedAggregates {
		if tracked == aggregate {
			return
		}
	}
	uow.trackedAggregates = append(uow.trackedAggregates, aggregate)
}

func (uow *GormUnitOfWork) flushDomainEvents(ctx context.Context) (int, error) {
	repo := outboxrepo.NewGormOutboxRepository(uow.tx)
	now := uow.now()

	written := 0
	for _, aggregate := range uow.trackedAggregates {
		for _, event := range aggregate.DomainEvents() {
			message, err := outbox.NewMessage(event, now)
			if err != nil {
				return written, err
			}
			if err = repo.Add(ctx, message); err != nil {
				return written, fmt.Errorf("append %s to outbox: %w", event.Topic(), err)
			}
			written++
		}
	}

	for _, aggregate := range uow.trackedAggregates {
		aggregate.ClearDomainEvents()
	}
	return written, nil
}

func (uow *GormUnitOfWork) reset() {
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
}
