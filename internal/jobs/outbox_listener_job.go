package jobs

import (
	"context"
	"log/slog"
	"sync"
)

// SignalSource fires after commits that wrote outbox messages.
type SignalSource interface {
	Signals() <-chan struct{}
}

// signalRunner is a SignalSource that must be driven, such as the postgres
// LISTEN connection.
type signalRunner interface {
	SignalSource
	Run(ctx context.Context) error
}

// OutboxListenerJob triggers the relay as soon as a commit is signalled, so
// events do not wait for the next cron tick.
type OutboxListenerJob struct {
	source  SignalSource
	trigger func()
	logger  *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxListenerJob(source SignalSource, trigger func(), logger *slog.Logger) *OutboxListenerJob {
	return &OutboxListenerJob{
		source:  source,
		trigger: trigger,
		logger:  logger.With("component", "outbox_listener_job"),
	}
}

func (j *OutboxListenerJob) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel

	if runner, ok := j.source.(signalRunner); ok {
		j.wg.Add(1)
		go func() {
			defer j.wg.Done()
			if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
				j.logger.ErrorContext(ctx, "Outbox signal source stopped", "error", err)
			}
		}()
	}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.listen(ctx)
	}()

	j.logger.InfoContext(ctx, "Outbox listener job started")
	return nil
}

func (j *OutboxListenerJob) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
	j.logger.InfoContext(context.Background(), "Outbox listener job stopped")
}

func (j *OutboxListenerJob) listen(ctx context.Context) {
	signals := j.source.Signals()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			j.trigger()
		}
	}
}
