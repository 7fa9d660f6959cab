package server

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	httperr "github.com/aevon-lab/ledgerline/internal/core/errors"
)

// RateLimitWrites rejects write requests beyond the limiter's budget with 429.
// Reads are never limited.
func RateLimitWrites(l *rate.Limiter, rejected prometheus.Counter) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		r := l.Reserve()
		if !r.OK() {
			reject(c, rejected, time.Second)
			return
		}
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			reject(c, rejected, delay)
			return
		}
		c.Next()
	}
}

func reject(c *gin.Context, rejected prometheus.Counter, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	rejected.Inc()
	slog.Warn("[Server] Rate limit exceeded", "method", c.Request.Method, "path", c.FullPath(), "client_ip", c.ClientIP())

	c.Header("Retry-After", strconv.Itoa(seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, httperr.ErrorResponse{
		ErrorType: httperr.HttpRateLimitedError,
		Message:   "Rate limit exceeded",
		Details:   map[string]int{"retry_after_seconds": seconds},
	})
}
