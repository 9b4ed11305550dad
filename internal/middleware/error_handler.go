package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Phalatsane/wings-cafe/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errInternal = apierror.New("internal server error")

// ErrorHandler logs errors attached with c.Error and, if the handler has not
// written a response yet, answers with a generic 500. Clients never see the
// underlying error text.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		ev := log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("route", routeOf(c)).
			Err(c.Errors.Last().Err)
		if len(c.Errors) > 1 {
			ev = ev.Strs("earlier_errors", c.Errors[:len(c.Errors)-1].Errors())
		}
		ev.Msg("request failed")

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, errInternal)
		}
	}
}

// Recovery turns a panic into a logged 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Error().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("route", routeOf(c)).
				Str("panic", fmt.Sprint(r)).
				Msg("handler panicked")
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, errInternal)
				return
			}
			c.Abort()
		}()
		c.Next()
	}
}

// Logger writes one access line per request. 5xx responses log at error
// level and 4xx at warn so failed calls stand out from normal traffic.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zerolog.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zerolog.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zerolog.WarnLevel
		}
		log.WithLevel(level).
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("route", routeOf(c)).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Str("client_ip", c.ClientIP()).
			Dur("took", time.Since(start)).
			Msg("http request")
	}
}

// routeOf prefers the matched route pattern (/sales/:id) so log lines group
// by endpoint; unmatched requests fall back to the raw path.
func routeOf(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return c.Request.URL.Path
}
