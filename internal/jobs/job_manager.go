package jobs

import (
	"fmt"
	"log/slog"

	"escrow/internal/core/application/usecases/commands"
)

// JobManager coordinates all background jobs in the application.
// Provides a unified interface to start and stop them.
type JobManager struct {
	relayJob    *OutboxRelayJob
	listenerJob *OutboxListenerJob
}

// NewJobManager wires the relay job to relayer and the listener job to
// signals. signals may be nil, in which case only the cron relay runs.
func NewJobManager(
	relayer Relayer,
	batchSize int,
	signals SignalSource,
	logger *slog.Logger,
) (*JobManager, error) {
	cmd, err := commands.NewRelayOutboxCommand(batchSize)
	if err != nil {
		return nil, err
	}

	relayJob := NewOutboxRelayJob(relayer, cmd, logger)
	jm := &JobManager{relayJob: relayJob}
	if signals != nil {
		jm.listenerJob = NewOutboxListenerJob(signals, relayJob.Trigger, logger)
	}
	return jm, nil
}

// StartAll starts all jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.relayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if jm.listenerJob != nil {
		if err := jm.listenerJob.Start(); err != nil {
			// Stop already started jobs if this one fails
			jm.relayJob.Stop()
			return fmt.Errorf("failed to start outbox listener job: %w", err)
		}
	}

	return nil
}

// StopAll stops all jobs gracefully. The listener stops first so no new
// pass is triggered while the relay drains.
func (jm *JobManager) StopAll() {
	if jm.listenerJob != nil {
		jm.listenerJob.Stop()
	}
	jm.relayJob.Stop()
}
