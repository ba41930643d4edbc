package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mecahub-backend/internal/delivery/http/response"
	"mecahub-backend/pkg/logger"
	"mecahub-backend/pkg/metrics"
	"mecahub-backend/pkg/ratelimit"
	"mecahub-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// Rate limit titles per endpoint
const (
	MsgUploadRateLimited = "Trop de tentatives d'upload"
	MsgEmailRateLimited  = "Trop de tentatives d'envoi d'email"
)

// RetryDetails is the details line of a 429 body.
func RetryDetails(seconds int) string {
	return fmt.Sprintf("Réessayez dans %d secondes", seconds)
}

// RateLimit keys limiter by the caller address and rejects over-limit
// requests with 429. Store errors fail open: the request is served and the
// failure is logged.
func RateLimit(limiter *ratelimit.Limiter, message string, secLog *security.SecurityLogger) gin.HandlerFunc {
	if secLog == nil {
		secLog = security.DefaultLogger()
	}
	policy := limiter.Policy()

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := ratelimit.Identifier(c.ClientIP(), "")

		allowed, err := limiter.Allow(ctx, id)
		if err != nil {
			logger.Log.Warn("rate limit store unavailable, allowing request",
				"policy", policy.Name,
				"request_id", response.RequestID(c),
				"error", err,
			)
			c.Next()
			return
		}

		remaining, err := limiter.RemainingTime(ctx, id)
		if err != nil {
			remaining = policy.Window
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(policy.MaxRequests))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(remaining).Unix(), 10))

		if allowed {
			c.Next()
			return
		}

		seconds := ratelimit.RetrySeconds(remaining)
		metrics.RecordRateLimited(policy.Name)
		secLog.LogRateLimitTriggered(ctx, id, c.Request.UserAgent(), response.RequestID(c), c.FullPath(), policy.Name)

		c.Header("X-RateLimit-Remaining", "0")
		c.Header("Retry-After", strconv.Itoa(seconds))
		response.Abort(c, http.StatusTooManyRequests, message, RetryDetails(seconds))
	}
}
