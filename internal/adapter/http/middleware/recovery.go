package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/flight-search/flight-booking-system/internal/adapter/http/response"
)

// RecoveryConfig controls what the recovery middleware logs.
type RecoveryConfig struct {
	// DisablePrintStack omits the stack trace from the panic log entry
	DisablePrintStack bool
}

// Recover returns middleware that turns a handler panic into a 500 response
// and one error log entry. The server keeps serving other requests.
func Recover(log zerolog.Logger) echo.MiddlewareFunc {
	return RecoverWithConfig(log, RecoveryConfig{})
}

// RecoverWithConfig returns recovery middleware with custom configuration.
func RecoverWithConfig(log zerolog.Logger, config RecoveryConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				req := c.Request()
				event := log.Error().
					Str("request_id", GetRequestID(c)).
					Str("panic", panicMessage(r)).
					Str("method", req.Method).
					Str("route", c.Path()).
					Str("path", req.URL.Path)
				if id := c.Param("id"); id != "" {
					event = event.Str("session_id", id)
				}
				if !config.DisablePrintStack {
					event = event.Bytes("stack", debug.Stack())
				}
				event.Msg("Panic recovered")

				// A handler that already wrote its status cannot be answered twice
				if !c.Response().Committed {
					err = response.InternalServerError(c)
				}
			}()

			return next(c)
		}
	}
}

func panicMessage(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(r)
}
