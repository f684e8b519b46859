package middleware

import (
	"net/http"
	"time"

	"yamdb/pkg/utils"

	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RateLimitByIP throttles per client IP. A non-positive limit disables it.
func RateLimitByIP(limit int, window time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	if window <= 0 {
		window = time.Minute
	}

	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("Rate limit exceeded",
				zap.String("ip", r.RemoteAddr),
				zap.String("path", r.URL.Path),
			)
			utils.ResponseTooManyRequests(w, "Too many requests, try again later")
		}),
	)
}
