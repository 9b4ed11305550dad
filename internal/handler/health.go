package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Phalatsane/wings-cafe/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Pinger reports whether a dependency is usable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns a JSON health check response. rdb and breaker are nil when
// the event queue is disabled. Never exposes paths or credentials.
func Health(store Pinger, rdb *redis.Client, breaker *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		body := gin.H{"store": "ok"}
		if store.Ping(ctx) != nil {
			body["store"] = "error"
			status = http.StatusServiceUnavailable
		}

		switch {
		case rdb == nil:
			body["redis"] = "disabled"
		case rdb.Ping(ctx).Err() != nil:
			// The queue is optional; report it without failing the check.
			body["redis"] = "error"
		default:
			body["redis"] = "connected"
		}
		if breaker != nil {
			body["event_queue"] = breaker.State().String()
		}

		body["ok"] = status == http.StatusOK
		c.JSON(status, body)
	}
}
