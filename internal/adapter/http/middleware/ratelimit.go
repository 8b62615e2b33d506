package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/flight-search/flight-booking-system/internal/adapter/http/response"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/ratelimit"
)

// RateLimit returns middleware that throttles requests per client IP.
// A nil limiter disables throttling.
func RateLimit(l *ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if l == nil || l.Allow(c.RealIP()) {
				return next(c)
			}
			return response.TooManyRequests(c, "1")
		}
	}
}
