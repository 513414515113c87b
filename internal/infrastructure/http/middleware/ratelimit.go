package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/keynotes/errors"
	"github.com/johnquangdev/keynotes/internal/infrastructure/cache"
)

// RateLimit allows limit requests per client IP in each window.
// Counter failures let the request through. Over the limit it returns
// errors.ErrRateLimited for the route's error renderer.
func RateLimit(counter cache.Counter, limit int, window time.Duration, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ratelimit:" + c.RealIP()

			n, err := counter.Incr(c.Request().Context(), key, window)
			if err != nil {
				if logger != nil {
					logger.Warn("ratelimit.counter.failed", zap.String("key", key), zap.Error(err))
				}
				return next(c)
			}

			remaining := int64(limit) - n
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if n > int64(limit) {
				h.Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return errors.ErrRateLimited()
			}
			return next(c)
		}
	}
}
