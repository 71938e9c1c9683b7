// Package middleware provides HTTP middleware for the picker service.
// ratelimit.go implements a per-IP fixed-window rate limiter whose counters
// live in Redis, so every replica shares the same budget.
package middleware

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/datepicker/internal/apperror"
)

// rateLimitKeyPrefix namespaces the counters in Redis.
const rateLimitKeyPrefix = "picker:ratelimit:"

// defaultRateLimitWindow replaces a non-positive window.
const defaultRateLimitWindow = time.Minute

// Response headers describing the caller's remaining session budget.
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
)

// RateLimit returns middleware that limits requests per IP to maxRequests
// within the given window. The counter for an IP is created by INCR and
// expires with the window. Returns 429 when exceeded.
//
// If Redis is unreachable the request is let through and the failure is
// logged. A non-positive window falls back to one minute and a limit below
// one is raised to one.
func RateLimit(rdb *redis.Client, scope string, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	if window <= 0 {
		slog.Warn("rate limit window not positive, using default",
			slog.String("scope", scope),
			slog.Duration("window", window),
		)
		window = defaultRateLimitWindow
	}
	if maxRequests < 1 {
		maxRequests = 1
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			bucket := time.Now().UnixNano() / int64(window)
			key := fmt.Sprintf("%s%s:%s:%d", rateLimitKeyPrefix, scope, c.RealIP(), bucket)

			pipe := rdb.TxPipeline()
			incr := pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, window)
			if _, err := pipe.Exec(ctx); err != nil {
				slog.Warn("rate limiter unavailable",
					slog.String("scope", scope),
					slog.Any("error", err),
				)
				return next(c)
			}

			count := incr.Val()
			remaining := int64(maxRequests) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set(HeaderRateLimitLimit, strconv.Itoa(maxRequests))
			c.Response().Header().Set(HeaderRateLimitRemaining, strconv.FormatInt(remaining, 10))

			if count > int64(maxRequests) {
				c.Response().Header().Set(echo.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
				return apperror.NewTooManyRequests("Rate limit exceeded. Please try again later.")
			}
			return next(c)
		}
	}
}
