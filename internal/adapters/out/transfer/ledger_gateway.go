// Package transfer settles escrowed funds.
package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"
)

type Kind string

const (
	KindRelease Kind = "release"
	KindRefund  Kind = "refund"
)

// Record is one executed settlement.
type Record struct {
	Kind       Kind
	Transfer   ports.Transfer
	ExecutedAt time.Time
}

// LedgerGateway is an in-process ledger of settlements. Every idempotency key
// is executed at most once; replaying it is a no-op.
type LedgerGateway struct {
	mu      sync.RWMutex
	byKey   map[string]Record
	records []Record
	logger  *slog.Logger
	now     func() time.Time
}

func NewLedgerGateway(logger *slog.Logger) *LedgerGateway {
	return &LedgerGateway{
		byKey:  make(map[string]Record),
		logger: logger.With("component", "LedgerGateway"),
		now:    time.Now,
	}
}

func (g *LedgerGateway) Release(ctx context.Context, transfer ports.Transfer) error {
	return g.execute(ctx, KindRelease, transfer)
}

func (g *LedgerGateway) Refund(ctx context.Context, transfer ports.Transfer) error {
	return g.execute(ctx, KindRefund, transfer)
}

// Records returns the executed settlements in execution order.
func (g *LedgerGateway) Records() []Record {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Record, len(g.records))
	copy(out, g.records)
	return out
}

// Lookup returns the settlement executed under key, if any.
func (g *LedgerGateway) Lookup(key string) (Record, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.byKey[key]
	return r, ok
}

func (g *LedgerGateway) execute(ctx context.Context, kind Kind, transfer ports.Transfer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if transfer.IdempotencyKey == "" {
		return errs.NewValueIsRequiredError("idempotency_key")
	}
	if err := transfer.OrderID.Validate(); err != nil {
		return err
	}
	if err := transfer.To.Validate(); err != nil {
		return err
	}
	if err := transfer.Amount.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.byKey[transfer.IdempotencyKey]; ok {
		if !sameTransfer(existing, kind, transfer) {
			return errs.NewObjectAlreadyExistsErrorWithCause(
				"idempotency_key",
				transfer.IdempotencyKey,
				fmt.Errorf("key already used for %s of order %s", existing.Kind, existing.Transfer.OrderID),
			)
		}
		g.logger.DebugContext(ctx, "settlement replayed",
			"kind", kind, "order_id", transfer.OrderID.String(), "key", transfer.IdempotencyKey)
		return nil
	}

	r := Record{Kind: kind, Transfer: transfer, ExecutedAt: g.now()}
	g.byKey[transfer.IdempotencyKey] = r
	g.records = append(g.records, r)

	g.logger.InfoContext(ctx, "settlement executed",
		"kind", kind,
		"order_id", transfer.OrderID.String(),
		"to", transfer.To.String(),
		"amount", transfer.Amount.String(),
		"key", transfer.IdempotencyKey,
	)
	return nil
}

func sameTransfer(r Record, kind Kind, t ports.Transfer) bool {
	return r.Kind == kind &&
		r.Transfer.OrderID.IsEqual(t.OrderID) &&
		r.Transfer.To.IsEqual(t.To) &&
		r.Transfer.Amount.IsEqual(t.Amount)
}
