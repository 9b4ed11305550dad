package worker

// Dead letter queue.
// Jobs the pool cannot decode are moved here for manual inspection.
// Uses a Redis list per source queue: dlq:{original_queue}

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry wraps a rejected job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string `json:"original_queue"`
	Raw           string `json:"raw"`
	Reason        string `json:"reason"`
	FailedAt      string `json:"failed_at"` // ISO 8601
}

// SendToDLQ pushes a rejected job to the dead letter queue.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, raw, reason string) {
	data, err := json.Marshal(DLQEntry{
		OriginalQueue: queue,
		Raw:           raw,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + queue
	if err := rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push to DLQ")
		return
	}
	log.Warn().Str("queue", queue).Str("reason", reason).Msg("dlq: job moved to dead letter queue")
}
