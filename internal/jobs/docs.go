// Package jobs provides the background tasks of the escrow service.
//
// # Available Jobs
//
// 1. OutboxRelayJob - Runs every second (github.com/robfig/cron/v3) and relays
// committed order events to the event sink, executing the settlements they imply
// 2. OutboxListenerJob - Waits for commit signals and triggers the relay at once
//
// # Usage
//
// Jobs are managed through JobManager:
//
//	jobManager, err := jobs.NewJobManager(&relayHandler, cfg.RelayBatchSize, notifier, logger)
//	if err != nil {
//		log.Fatal("Failed to create jobs:", err)
//	}
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The relay is single-flight; overlapping triggers return ErrRelayAlreadyRunning, which is ignored
// - A pass that fills a whole batch is repeated until the outbox is drained
// - Delivery failures are recorded on the outbox messages, not returned by the jobs
package jobs
