package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/campwire/community-core/internal/metrics"
	"github.com/campwire/community-core/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

const errRateLimited = "Too many requests"

// RateGate bounds request volume on the credential endpoints. Paths in
// exempt are never gated — the exemption is an explicit allow-list, not a
// blanket pass for authenticated traffic. The identity key is the
// authenticated account when present, otherwise the client IP.
func RateGate(limiter ratelimit.Limiter, logger *slog.Logger, exempt []string) gin.HandlerFunc {
	logger = logger.With("component", "rate_gate")
	exemptSet := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		exemptSet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := exemptSet[c.FullPath()]; ok {
			c.Next()
			return
		}

		decision, err := limiter.Allow(c.Request.Context(), identityKey(c))
		if err != nil {
			// Fail open: a broken counter store must not take the
			// credential endpoints down with it.
			logger.ErrorContext(c.Request.Context(), "rate limiter store", "error", err)
			c.Next()
			return
		}

		if !decision.Allowed {
			seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			metrics.RateLimitRejectionsTotal.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": errRateLimited})
			return
		}

		c.Next()
	}
}

func identityKey(c *gin.Context) string {
	if id := c.GetString("accountID"); id != "" {
		return "acct:" + id
	}
	return "ip:" + c.ClientIP()
}
