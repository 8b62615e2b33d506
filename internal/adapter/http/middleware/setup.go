package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/flight-search/flight-booking-system/internal/infrastructure/ratelimit"
)

// Options configures the middleware stack.
type Options struct {
	Recovery RecoveryConfig

	// Limiter throttles requests per client IP; nil disables throttling
	Limiter *ratelimit.Limiter
}

// Setup registers all middleware on the Echo instance in the correct order.
// The order is important:
//  1. RequestID - First, to generate/propagate request ID for all subsequent logging
//  2. RequestLogger - Second, logs all requests with request ID, including throttled ones
//  3. Recover - Third, catches panics and returns 500 (wraps handlers)
//  4. RateLimit - Last, rejects clients over their request budget with 429
//
// This function should be called before registering routes.
func Setup(e *echo.Echo, log zerolog.Logger, opts Options) {
	for _, mw := range Chain(log, opts) {
		e.Use(mw)
	}
}

// Chain returns all middleware as a slice for use with route groups.
func Chain(log zerolog.Logger, opts Options) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		RequestID(),
		RequestLogger(log),
		RecoverWithConfig(log, opts.Recovery),
		RateLimit(opts.Limiter),
	}
}
