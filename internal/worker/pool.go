package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Phalatsane/wings-cafe/internal/dto"
	"github.com/Phalatsane/wings-cafe/internal/infra"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// QueueInventory holds ledger events for downstream consumers.
const QueueInventory = "events:inventory"

// Job is the envelope stored in the queue.
type Job struct {
	Type    string              `json:"type"`
	Payload jsoniter.RawMessage `json:"payload"`
}

// Dispatcher pushes ledger events into a Redis list. It satisfies
// service.EventPublisher. Pushes go through a circuit breaker so a Redis
// outage costs one fast failure per event instead of a timeout.
type Dispatcher struct {
	rdb     *redis.Client
	breaker *infra.CircuitBreaker
}

func NewDispatcher(rdb *redis.Client, breaker *infra.CircuitBreaker) *Dispatcher {
	return &Dispatcher{rdb: rdb, breaker: breaker}
}

// Publish enqueues ev on QueueInventory.
func (d *Dispatcher) Publish(ctx context.Context, ev dto.LedgerEvent) error {
	encoded, err := encodeJob(ev)
	if err != nil {
		return err
	}
	return d.breaker.Execute(func() error {
		pushCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		return d.rdb.LPush(pushCtx, QueueInventory, encoded).Err()
	})
}

func encodeJob(ev dto.LedgerEvent) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Job{Type: ev.Type, Payload: payload})
}

// StartWorkerPool launches numWorkers goroutines consuming QueueInventory.
// Each goroutine blocks on BRPOP and exits when ctx is cancelled.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i)
	}
	log.Info().Msgf("event worker pool started with %d workers", numWorkers)
}

const (
	minPollBackoff = 500 * time.Millisecond
	maxPollBackoff = 10 * time.Second
)

func runWorker(ctx context.Context, rdb *redis.Client, id int) {
	var backoff time.Duration
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("event worker %d shutting down", id)
			return
		case <-time.After(backoff):
		}

		// Blocking pop: waits up to 5s then loops to check ctx
		result, err := rdb.BRPop(ctx, 5*time.Second, QueueInventory).Result()
		backoff = nextPollBackoff(backoff, err)
		if err != nil {
			if backoff > 0 {
				log.Warn().Err(err).Int("worker", id).Dur("retry_in", backoff).Msg("event queue unavailable")
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		if err := processJob(result[1]); err != nil {
			SendToDLQ(ctx, rdb, QueueInventory, result[1], err.Error())
		}
	}
}

// nextPollBackoff returns how long to wait before the next BRPOP. An empty
// queue (redis.Nil) or a cancelled context polls again at once; other errors
// double the wait up to maxPollBackoff.
func nextPollBackoff(cur time.Duration, err error) time.Duration {
	switch {
	case err == nil, errors.Is(err, redis.Nil),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return 0
	case cur < minPollBackoff:
		return minPollBackoff
	case cur*2 > maxPollBackoff:
		return maxPollBackoff
	default:
		return cur * 2
	}
}

// processJob decodes one queued event and reports it. Low-stock events are
// logged at warn level so they surface in alerting.
func processJob(raw string) error {
	ev, err := decodeJob(raw)
	if err != nil {
		return err
	}

	entry := log.Info()
	if ev.Type == dto.EventStockLow {
		entry = log.Warn()
	}
	entry.
		Str("event", ev.Type).
		Str("product_id", ev.ProductID).
		Str("product_name", ev.ProductName).
		Str("sale_id", ev.SaleID).
		Int("quantity", ev.Quantity).
		Int("stock_after", ev.StockAfter).
		Str("occurred_at", ev.OccurredAt).
		Msg("ledger event")
	return nil
}

func decodeJob(raw string) (dto.LedgerEvent, error) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return dto.LedgerEvent{}, fmt.Errorf("decode job: %w", err)
	}
	var ev dto.LedgerEvent
	if err := json.Unmarshal(job.Payload, &ev); err != nil {
		return dto.LedgerEvent{}, fmt.Errorf("decode %q payload: %w", job.Type, err)
	}
	if ev.Type == "" || ev.Type != job.Type {
		return dto.LedgerEvent{}, fmt.Errorf("job type %q does not match payload type %q", job.Type, ev.Type)
	}
	return ev, nil
}
