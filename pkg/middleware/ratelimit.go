package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/shadyhoon/RentEase/pkg/redis"
)

// RateLimitConfig controls the per-client sliding window.
type RateLimitConfig struct {
	Max    int64
	Window time.Duration
}

// RateLimit throttles requests per client IP and route using the Redis sliding window.
// A nil limiter disables throttling, limits fail open on Redis errors.
func RateLimit(logger ectologger.Logger, limiter *redis.RateLimiter, cfg RateLimitConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			key := fmt.Sprintf("%s:%s", c.RealIP(), c.Path())

			result, err := limiter.Allow(ctx, key, cfg.Max, cfg.Window)
			if err != nil {
				logger.WithContext(ctx).WithError(err).Warn("rate limit check failed, allowing request")
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
			if !result.Allowed {
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(result.RetryIn.Seconds())+1))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}

			return next(c)
		}
	}
}
