package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"escrow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// Relayer runs one pass over the outbox.
type Relayer interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (commands.RelayOutboxResult, error)
}

// OutboxRelayJob relays committed events every second. Trigger runs a pass
// immediately, which the listener job uses after a commit.
type OutboxRelayJob struct {
	relayer Relayer
	cmd     commands.RelayOutboxCommand
	cron    *cron.Cron
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// mu orders wg.Add in Trigger against wg.Wait in Stop.
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func NewOutboxRelayJob(relayer Relayer, cmd commands.RelayOutboxCommand, logger *slog.Logger) *OutboxRelayJob {
	ctx, cancel := context.WithCancel(context.Background())
	return &OutboxRelayJob{
		relayer: relayer,
		cmd:     cmd,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "outbox_relay_job"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins relaying every second.
func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", j.Trigger)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(j.ctx, "Outbox relay job started (running every second)", "batch_size", j.cmd.BatchSize())
	return nil
}

// Stop waits for a running pass to finish. Triggers after Stop do nothing.
func (j *OutboxRelayJob) Stop() {
	j.mu.Lock()
	j.stopped = true
	j.mu.Unlock()

	<-j.cron.Stop().Done()
	j.cancel()
	j.wg.Wait()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

// Trigger relays until the outbox has no more deliverable messages. It
// returns at once if another pass is running.
func (j *OutboxRelayJob) Trigger() {
	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		return
	}
	j.wg.Add(1)
	j.mu.Unlock()
	defer j.wg.Done()

	for j.ctx.Err() == nil {
		result, err := j.relayer.Handle(j.ctx, j.cmd)
		if err != nil {
			if !errors.Is(err, commands.ErrRelayAlreadyRunning) && !errors.Is(err, context.Canceled) {
				j.logger.ErrorContext(j.ctx, "Outbox relay job failed", "error", err)
			}
			return
		}

		if result.Published+result.Failed+result.DeadLettered > 0 {
			j.logger.DebugContext(j.ctx, "Outbox relayed",
				"published", result.Published,
				"failed", result.Failed,
				"dead_lettered", result.DeadLettered,
				"deferred", result.Deferred,
			)
		}
		if result.DeadLettered > 0 {
			j.logger.WarnContext(j.ctx, "Outbox messages dead-lettered", "count", result.DeadLettered)
		}

		if !batchWasFull(result, j.cmd.BatchSize()) {
			return
		}
	}
}

// batchWasFull reports whether a pass consumed a whole batch and made
// progress, so more messages may be waiting.
func batchWasFull(r commands.RelayOutboxResult, batchSize int) bool {
	seen := r.Published + r.Failed + r.DeadLettered + r.Deferred
	return seen >= batchSize && r.Published+r.DeadLettered > 0
}
