package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

const (
	minReconnectInterval = 100 * time.Millisecond
	maxReconnectInterval = 10 * time.Second
)

// Notifier listens on OutboxChannel and reports every notification, and
// every reconnect, as a signal that the outbox may have new messages.
// Signals are coalesced: a reader that is busy sees at most one pending
// signal.
type Notifier struct {
	listener *pq.Listener
	signals  chan struct{}
	logger   *slog.Logger
}

// NewNotifier opens a dedicated LISTEN connection using dsn.
func NewNotifier(dsn string, logger *slog.Logger) (*Notifier, error) {
	n := &Notifier{
		signals: make(chan struct{}, 1),
		logger:  logger.With("component", "OutboxNotifier"),
	}

	n.listener = pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval, n.onEvent)
	if err := n.listener.Listen(OutboxChannel); err != nil {
		_ = n.listener.Close()
		return nil, fmt.Errorf("listen on %s: %w", OutboxChannel, err)
	}

	return n, nil
}

// Signals returns the coalesced signal channel. It is closed when Run
// returns.
func (n *Notifier) Signals() <-chan struct{} {
	return n.signals
}

// Run forwards notifications until ctx is done, then closes the listener.
func (n *Notifier) Run(ctx context.Context) error {
	defer close(n.signals)
	defer func() {
		_ = n.listener.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-n.listener.Notify:
			// nil notifications follow a reconnect, when messages may
			// have been missed.
			if !ok {
				return nil
			}
			n.signal()
		}
	}
}

func (n *Notifier) signal() {
	select {
	case n.signals <- struct{}{}:
	default:
	}
}

func (n *Notifier) onEvent(event pq.ListenerEventType, err error) {
	switch event {
	case pq.ListenerEventConnected:
		n.logger.Info("listening for outbox notifications", "channel", OutboxChannel)
	case pq.ListenerEventDisconnected:
		n.logger.Warn("outbox listener disconnected", "error", err)
	case pq.ListenerEventReconnected:
		n.logger.Info("outbox listener reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		n.logger.Error("outbox listener connection attempt failed", "error", err)
	}
}
