package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"escrow/internal/core/domain/model/outbox"
	"escrow/internal/core/domain/services"
	"escrow/internal/core/ports"

	"go.opentelemetry.io/otel/attribute"
)

// ErrRelayAlreadyRunning is returned when another relay pass holds the
// handler. Callers scheduling the relay periodically can ignore it.
var ErrRelayAlreadyRunning = errors.New("outbox relay is already running")

// RelayOutboxResult counts what one relay pass did.
type RelayOutboxResult struct {
	Published    int
	Failed       int
	DeadLettered int
	// Deferred messages were skipped because they are not due yet or an
	// earlier message of the same order has not been delivered.
	Deferred int
}

// RelayOutboxCommandHandler moves committed events from the outbox to the
// event sink and executes the settlements they imply.
//
// For every pending message, in sequence order:
//   - order_completed releases the amount to the vendor
//   - order_refunded refunds the amount to the buyer
//   - the message is published to the sink
//   - the message is marked published, or its failure is recorded
//
// Settlement uses the message id as idempotency key, so a message that
// settled but failed to publish does not move funds twice when retried.
// Messages of one order are delivered in order: a message waiting for retry
// holds back the later messages of its order. Dead messages do not.
//
// Only one pass runs at a time per handler.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	sink       ports.EventSink
	transfer   ports.FundsTransfer
	planner    services.SettlementPlanner
	now        func() time.Time
	mu         *sync.Mutex
}

func NewRelayOutboxCommandHandler(
	uowFactory OutboxUoWFactory,
	sink ports.EventSink,
	transfer ports.FundsTransfer,
) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		uowFactory: uowFactory,
		sink:       sink,
		transfer:   transfer,
		planner:    services.NewSettlementPlanner(),
		now:        time.Now,
		mu:         &sync.Mutex{},
	}
}

func (h *RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (result RelayOutboxResult, err error) {
	if err = cmd.Validate(); err != nil {
		return result, err
	}

	if !h.mu.TryLock() {
		return result, ErrRelayAlreadyRunning
	}
	defer h.mu.Unlock()

	ctx, span := tracer.Start(ctx, "RelayOutbox")
	defer func() {
		span.SetAttributes(
			attribute.Int("relay.published", result.Published),
			attribute.Int("relay.failed", result.Failed),
			attribute.Int("relay.dead_lettered", result.DeadLettered),
		)
		endSpan(span, err)
	}()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return result, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OutboxRepository()
	now := h.now()

	messages, err := repo.GetPending(ctx, cmd.BatchSize())
	if err != nil {
		return result, err
	}

	held := make(map[string]struct{})
	for _, m := range messages {
		key := m.OrderID().String()
		if _, ok := held[key]; ok {
			result.Deferred++
			continue
		}
		if !m.IsDue(now) {
			held[key] = struct{}{}
			result.Deferred++
			continue
		}

		if deliverErr := h.deliver(ctx, m); deliverErr != nil {
			if err = m.RecordFailure(deliverErr, now); err != nil {
				return result, err
			}
			if m.Status() == outbox.Dead {
				result.DeadLettered++
			} else {
				held[key] = struct{}{}
				result.Failed++
			}
		} else {
			if err = m.MarkPublished(); err != nil {
				return result, err
			}
			result.Published++
		}

		if err = repo.Update(ctx, m); err != nil {
			return result, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return result, err
	}

	return result, nil
}

func (h *RelayOutboxCommandHandler) deliver(ctx context.Context, m *outbox.Message) error {
	if err := h.settle(ctx, m); err != nil {
		return fmt.Errorf("settle: %w", err)
	}
	if err := h.sink.Publish(ctx, m); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (h *RelayOutboxCommandHandler) settle(ctx context.Context, m *outbox.Message) error {
	settlement, ok, err := h.planner.Plan(m)
	if err != nil || !ok {
		return err
	}

	transfer := ports.Transfer{
		IdempotencyKey: settlement.IdempotencyKey,
		OrderID:        settlement.OrderID,
		To:             settlement.To,
		Amount:         settlement.Amount,
	}
	switch settlement.Kind {
	case services.Release:
		return h.transfer.Release(ctx, transfer)
	case services.Refund:
		return h.transfer.Refund(ctx, transfer)
	default:
		return fmt.Errorf("unknown settlement kind %s", settlement.Kind)
	}
}
