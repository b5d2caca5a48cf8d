package worker

// retry_cron.go
// Background goroutine that periodically drains the dead letter queues and
// requeues failed jobs onto their original queue. Jobs past the attempt cap
// stay parked in the DLQ for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxJobAttempts caps how often a DLQ'd job is put back on its queue.
	MaxJobAttempts = 3
)

// StartRetryCron launches a background goroutine that ticks every 30s and
// requeues retryable DLQ entries. It respects the context for graceful
// shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				for _, queue := range []string{QueueMovements, QueueAudit} {
					requeueFromDLQ(ctx, rdb, queue)
				}
			}
		}
	}()
}

func requeueFromDLQ(ctx context.Context, rdb *redis.Client, queue string) {
	dlqKey := DLQPrefix + queue
	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty queue or redis down, next tick retries
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: unreadable DLQ entry dropped")
			continue
		}

		if entry.Attempts >= MaxJobAttempts {
			// Park it back at the head so manual tooling can inspect it.
			_ = rdb.LPush(ctx, dlqKey, raw).Err()
			log.Warn().
				Str("queue", queue).
				Str("job_type", entry.JobType).
				Int("attempts", entry.Attempts).
				Msg("retry_cron: attempt cap reached, entry parked in DLQ")
			return
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts}
		encoded, err := json.Marshal(job)
		if err != nil {
			continue
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("retry_cron: requeue failed")
			return
		}
		log.Info().
			Str("queue", queue).
			Str("job_type", entry.JobType).
			Int("attempts", entry.Attempts).
			Msg("retry_cron: job requeued from DLQ")
	}
}
