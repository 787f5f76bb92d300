package commands_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/outbox"
	"escrow/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMessage(
	t *testing.T,
	orderID kernel.OrderID,
	topic order.Topic,
	payload any,
	seq int64,
	attempts int,
	nextAttemptAt time.Time,
) *outbox.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	m, err := outbox.RestoreMessage(
		kernel.NewUUID(), orderID, topic, raw, 1, outbox.Pending, attempts, "", nextAttemptAt, seq,
	)
	require.NoError(t, err)
	return m
}

type relayMocks struct {
	factory  *MockOutboxUoWFactory
	uow      *MockOutboxUoW
	repo     *MockOutboxRepository
	sink     *MockEventSink
	transfer *MockFundsTransfer
}

func newRelayMocks(pending []*outbox.Message) relayMocks {
	m := relayMocks{
		factory:  new(MockOutboxUoWFactory),
		uow:      new(MockOutboxUoW),
		repo:     new(MockOutboxRepository),
		sink:     new(MockEventSink),
		transfer: new(MockFundsTransfer),
	}
	m.factory.On("Create").Return(m.uow).Once()
	m.uow.On("Begin", mock.Anything).Return(nil).Once()
	m.uow.On("OutboxRepository").Return(m.repo).Once()
	m.repo.On("GetPending", mock.Anything, 10).Return(pending, nil).Once()
	m.uow.On("Rollback", mock.Anything).Return(nil).Once()
	return m
}

func (m relayMocks) handler() commands.RelayOutboxCommandHandler {
	return commands.NewRelayOutboxCommandHandler(m.factory, m.sink, m.transfer)
}

func relayCommand(t *testing.T) commands.RelayOutboxCommand {
	t.Helper()
	cmd, err := commands.NewRelayOutboxCommand(10)
	require.NoError(t, err)
	return cmd
}

func TestRelayOutboxCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewRandomOrderID()
	buyer := newPrincipal(t, "buyer")
	vendor := newPrincipal(t, "vendor")

	t.Run("should publish pending messages in sequence order", func(t *testing.T) {
		created := newMessage(t, orderID, order.TopicOrderCreated, order.OrderCreated{OrderID: orderID.String()}, 1, 0, time.Time{})
		paid := newMessage(t, orderID, order.TopicOrderPaid, order.OrderPaid{OrderID: orderID.String()}, 2, 0, time.Time{})
		m := newRelayMocks([]*outbox.Message{created, paid})

		mock.InOrder(
			m.sink.On("Publish", mock.Anything, created).Return(nil).Once(),
			m.repo.On("Update", mock.Anything, created).Return(nil).Once(),
			m.sink.On("Publish", mock.Anything, paid).Return(nil).Once(),
			m.repo.On("Update", mock.Anything, paid).Return(nil).Once(),
			m.uow.On("Commit", mock.Anything).Return(nil).Once(),
		)

		h := m.handler()
		result, err := h.Handle(ctx, relayCommand(t))
		require.NoError(t, err)
		assert.Equal(t, commands.RelayOutboxResult{Published: 2}, result)
		assert.Equal(t, outbox.Published, created.Status())
		assert.Equal(t, outbox.Published, paid.Status())
		m.sink.AssertExpectations(t)
		m.repo.AssertExpectations(t)
		m.uow.AssertExpectations(t)
		m.transfer.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("should release funds to vendor before publishing completion", func(t *testing.T) {
		completed := newMessage(t, orderID, order.TopicOrderCompleted, order.OrderCompleted{
			OrderID: orderID.String(),
			Buyer:   buyer.String(),
			Vendor:  vendor.String(),
			Amount:  "750",
		}, 1, 0, time.Time{})
		m := newRelayMocks([]*outbox.Message{completed})

		expected := ports.Transfer{
			IdempotencyKey: completed.ID().String(),
			OrderID:        orderID,
			To:             vendor,
			Amount:         kernel.AmountFromInt64(750),
		}
		mock.InOrder(
			m.transfer.On("Release", mock.Anything, expected).Return(nil).Once(),
			m.sink.On("Publish", mock.Anything, completed).Return(nil).Once(),
			m.repo.On("Update", mock.Anything, completed).Return(nil).Once(),
			m.uow.On("Commit", mock.Anything).Return(nil).Once(),
		)

		h := m.handler()
		result, err := h.Handle(ctx, relayCommand(t))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Published)
		m.transfer.AssertExpectations(t)
	})

	t.Run("should refund buyer on refund event", func(t *testing.T) {
		refunded := newMessage(t, orderID, order.TopicOrderRefunded, order.OrderRefunded{
			OrderID: orderID.String(),
			Buyer:   buyer.String(),
			Amount:  "750",
		}, 1, 0, time.Time{})
		m := newRelayMocks([]*outbox.Message{refunded})

		m.transfer.On("Refund", mock.Anything, mock.MatchedBy(func(tr ports.Transfer) bool {
			return tr.To.IsEqual(buyer) && tr.IdempotencyKey == refunded.ID().String()
		})).Return(nil).Once()
		m.sink.On("Publish", mock.Anything, refunded).Return(nil).Once()
		m.repo.On("Update", mock.Anything, refunded).Return(nil).Once()
		m.uow.On("Commit", mock.Anything).Return(nil).Once()

		h := m.handler()
		_, err := h.Handle(ctx, relayCommand(t))
		require.NoError(t, err)
		m.transfer.AssertExpectations(t)
		m.transfer.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("should schedule retry and hold later messages of the same order", func(t *testing.T) {
		first := newMessage(t, orderID, order.TopicOrderCreated, order.OrderCreated{}, 1, 0, time.Time{})
		second := newMessage(t, orderID, order.TopicOrderPaid, order.OrderPaid{}, 2, 0, time.Time{})
		otherID := kernel.NewRandomOrderID()
		other := newMessage(t, otherID, order.TopicOrderCreated, order.OrderCreated{}, 3, 0, time.Time{})
		m := newRelayMocks([]*outbox.Message{first, second, other})

		m.sink.On("Publish", mock.Anything, first).Return(errors.New("sink offline")).Once()
		m.repo.On("Update", mock.Anything, first).Return(nil).Once()
		m.sink.On("Publish", mock.Anything, other).Return(nil).Once()
		m.repo.On("Update", mock.Anything, other).Return(nil).Once()
		m.uow.On("Commit", mock.Anything).Return(nil).Once()

		before := time.Now()
		h := m.handler()
		result, err := h.Handle(ctx, relayCommand(t))
		require.NoError(t, err)
		assert.Equal(t, commands.RelayOutboxResult{Published: 1, Failed: 1, Deferred: 1}, result)

		assert.Equal(t, outbox.Pending, first.Status())
		assert.Equal(t, 1, first.AttemptCount())
		assert.Contains(t, first.LastError(), "sink offline")
		assert.False(t, first.NextAttemptAt().Before(before.Add(time.Second)))
		assert.Equal(t, outbox.Pending, second.Status())
		m.sink.AssertNotCalled(t, "Publish", mock.Anything, second)
	})

	t.Run("should hold messages that are not due", func(t *testing.T) {
		later := newMessage(t, orderID, order.TopicOrderCreated, order.OrderCreated{}, 1, 1, time.Now().Add(time.Hour))
		next := newMessage(t, orderID, order.TopicOrderPaid, order.OrderPaid{}, 2, 0, time.Time{})
		m := newRelayMocks([]*outbox.Message{later, next})
		m.uow.On("Commit", mock.Anything).Return(nil).Once()

		h := m.handler()
		result, err := h.Handle(ctx, relayCommand(t))
		require.NoError(t, err)
		assert.Equal(t, commands.RelayOutboxResult{Deferred: 2}, result)
		m.sink.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("should dead letter after the last attempt", func(t *testing.T) {
		dying := newMessage(t, orderID, order.TopicOrderCreated, order.OrderCreated{}, 1, outbox.MaxAttempts-1, time.Time{})
		next := newMessage(t, orderID, order.TopicOrderPaid, order.OrderPaid{}, 2, 0, time.Time{})
		m := newRelayMocks([]*outbox.Message{dying, next})

		m.sink.On("Publish", mock.Anything, dying).Return(errors.New("rejected")).Once()
		m.repo.On("Update", mock.Anything, dying).Return(nil).Once()
		m.sink.On("Publish", mock.Anything, next).Return(nil).Once()
		m.repo.On("Update", mock.Anything, next).Return(nil).Once()
		m.uow.On("Commit", mock.Anything).Return(nil).Once()

		h := m.handler()
		result, err := h.Handle(ctx, relayCommand(t))
		require.NoError(t, err)
		assert.Equal(t, commands.RelayOutboxResult{Published: 1, DeadLettered: 1}, result)
		assert.Equal(t, outbox.Dead, dying.Status())
		assert.Equal(t, outbox.MaxAttempts, dying.AttemptCount())
	})

	t.Run("should not publish when settlement fails", func(t *testing.T) {
		completed := newMessage(t, orderID, order.TopicOrderCompleted, order.OrderCompleted{
			OrderID: orderID.String(),
			Vendor:  vendor.String(),
			Amount:  "750",
		}, 1, 0, time.Time{})
		m := newRelayMocks([]*outbox.Message{completed})

		m.transfer.On("Release", mock.Anything, mock.Anything).Return(errors.New("ledger unavailable")).Once()
		m.repo.On("Update", mock.Anything, completed).Return(nil).Once()
		m.uow.On("Commit", mock.Anything).Return(nil).Once()

		h := m.handler()
		result, err := h.Handle(ctx, relayCommand(t))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Contains(t, completed.LastError(), "settle")
		m.sink.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("should fail when pending messages cannot be read", func(t *testing.T) {
		factory := new(MockOutboxUoWFactory)
		uow := new(MockOutboxUoW)
		repo := new(MockOutboxRepository)
		factory.On("Create").Return(uow).Once()
		uow.On("Begin", mock.Anything).Return(nil).Once()
		uow.On("OutboxRepository").Return(repo).Once()
		repo.On("GetPending", mock.Anything, 10).Return(nil, errors.New("connection reset")).Once()
		uow.On("Rollback", mock.Anything).Return(nil).Once()

		h := commands.NewRelayOutboxCommandHandler(factory, new(MockEventSink), new(MockFundsTransfer))
		_, err := h.Handle(ctx, relayCommand(t))
		require.EqualError(t, err, "connection reset")
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should reject default constructed command", func(t *testing.T) {
		h := commands.NewRelayOutboxCommandHandler(new(MockOutboxUoWFactory), new(MockEventSink), new(MockFundsTransfer))
		_, err := h.Handle(ctx, commands.RelayOutboxCommand{})
		require.ErrorIs(t, err, commands.ErrRelayOutboxCommandIsNotConstructed)
	})
}
