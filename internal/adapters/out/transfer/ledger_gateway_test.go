package transfer_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"escrow/internal/adapters/out/transfer"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransfer(t *testing.T, key, to string, amount int64) ports.Transfer {
	t.Helper()
	p, err := kernel.NewPrincipal(to)
	require.NoError(t, err)
	return ports.Transfer{
		IdempotencyKey: key,
		OrderID:        kernel.NewRandomOrderID(),
		To:             p,
		Amount:         kernel.AmountFromInt64(amount),
	}
}

func newGateway() *transfer.LedgerGateway {
	return transfer.NewLedgerGateway(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLedgerGateway(t *testing.T) {
	ctx := t.Context()

	t.Run("should record release and refund", func(t *testing.T) {
		g := newGateway()
		release := newTransfer(t, "k1", "vendor", 100)
		refund := newTransfer(t, "k2", "buyer", 40)

		require.NoError(t, g.Release(ctx, release))
		require.NoError(t, g.Refund(ctx, refund))

		records := g.Records()
		require.Len(t, records, 2)
		assert.Equal(t, transfer.KindRelease, records[0].Kind)
		assert.Equal(t, "vendor", records[0].Transfer.To.String())
		assert.Equal(t, transfer.KindRefund, records[1].Kind)
		assert.Equal(t, "40", records[1].Transfer.Amount.String())
	})

	t.Run("should execute a repeated key once", func(t *testing.T) {
		g := newGateway()
		tr := newTransfer(t, "k1", "vendor", 100)

		require.NoError(t, g.Release(ctx, tr))
		require.NoError(t, g.Release(ctx, tr))

		assert.Len(t, g.Records(), 1)
		r, ok := g.Lookup("k1")
		require.True(t, ok)
		assert.Equal(t, transfer.KindRelease, r.Kind)
	})

	t.Run("should reject a key reused for another transfer", func(t *testing.T) {
		g := newGateway()
		tr := newTransfer(t, "k1", "vendor", 100)
		require.NoError(t, g.Release(ctx, tr))

		err := g.Refund(ctx, tr)
		require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
		assert.Len(t, g.Records(), 1)
	})

	t.Run("should require an idempotency key", func(t *testing.T) {
		g := newGateway()
		err := g.Release(ctx, newTransfer(t, "", "vendor", 1))
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Empty(t, g.Records())
	})

	t.Run("should reject an unconstructed transfer", func(t *testing.T) {
		g := newGateway()
		err := g.Release(ctx, ports.Transfer{IdempotencyKey: "k"})
		require.Error(t, err)
		assert.Empty(t, g.Records())
	})

	t.Run("should stop on cancelled context", func(t *testing.T) {
		g := newGateway()
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := g.Release(cancelled, newTransfer(t, "k1", "vendor", 1))
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("should settle once under concurrent retries", func(t *testing.T) {
		g := newGateway()
		tr := newTransfer(t, "k1", "buyer", 5)

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, g.Refund(ctx, tr))
			}()
		}
		wg.Wait()

		assert.Len(t, g.Records(), 1)
	})
}
