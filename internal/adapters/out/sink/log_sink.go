// Package sink contains the EventSink implementations the relay publishes
// committed order events to.
package sink

import (
	"context"
	"errors"
	"log/slog"

	"escrow/internal/core/domain/model/outbox"
	"escrow/internal/core/ports"
)

// LogSink writes every event as a structured log record.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "EventLog")}
}

func (s *LogSink) Publish(ctx context.Context, message *outbox.Message) error {
	s.logger.InfoContext(ctx, "order event",
		"event_id", message.ID().String(),
		"sequence", message.Sequence(),
		"order_id", message.OrderID().String(),
		"topic", message.Topic().String(),
		"occurred_at", message.OccurredAt(),
		"payload", string(message.Payload()),
	)
	return nil
}

// MultiSink publishes to every sink in order and reports all failures.
// Because delivery is retried as a whole, sinks that already succeeded see
// the message again; each sink must tolerate duplicates.
type MultiSink struct {
	sinks []ports.EventSink
}

func NewMultiSink(sinks ...ports.EventSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (s *MultiSink) Publish(ctx context.Context, message *outbox.Message) error {
	var errList []error
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, message); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}
