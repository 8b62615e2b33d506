package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error writes an ErrorDetail body with the given status.
func Error(c echo.Context, status int, code, message string) error {
	return c.JSON(status, &ErrorDetail{Code: code, Message: message})
}

// InvalidRequestBody writes a 400 for bodies that fail to bind.
func InvalidRequestBody(c echo.Context) error {
	return Error(c, http.StatusBadRequest, CodeInvalidRequest, MsgInvalidRequestBody)
}

// ValidationError writes a 400 with per-field details.
func ValidationError(c echo.Context, details map[string]string) error {
	return c.JSON(http.StatusBadRequest, &ErrorDetail{
		Code:    CodeValidationError,
		Message: MsgValidationFailed,
		Details: details,
	})
}

// ValidationErrorWithMessage writes a 400 for a request that is well formed
// but not acceptable, such as a passenger count that differs from the search.
func ValidationErrorWithMessage(c echo.Context, message string) error {
	return Error(c, http.StatusBadRequest, CodeValidationError, message)
}

// NotFound writes a 404 for an unknown session or itinerary.
func NotFound(c echo.Context, message string) error {
	return Error(c, http.StatusNotFound, CodeNotFound, message)
}

// Conflict writes a 409 for an action the session's selection stage does not allow.
func Conflict(c echo.Context, message string) error {
	return Error(c, http.StatusConflict, CodeConflict, message)
}

// TooManyRequests writes a 429 and asks the client to retry after retryAfter seconds.
func TooManyRequests(c echo.Context, retryAfter string) error {
	c.Response().Header().Set("Retry-After", retryAfter)
	return Error(c, http.StatusTooManyRequests, CodeRateLimited, MsgRateLimited)
}

// ServiceUnavailable writes a 503 when no searcher can be reached.
func ServiceUnavailable(c echo.Context) error {
	return Error(c, http.StatusServiceUnavailable, CodeServiceUnavailable, MsgServiceUnavailable)
}

// GatewayTimeout writes a 504 when the request deadline passed.
func GatewayTimeout(c echo.Context) error {
	return Error(c, http.StatusGatewayTimeout, CodeTimeout, MsgTimeout)
}

// RequestCancelled writes a 504 when the client went away mid-request.
func RequestCancelled(c echo.Context) error {
	return Error(c, http.StatusGatewayTimeout, CodeTimeout, MsgRequestCancelled)
}

// InternalServerError writes a 500 without leaking the cause.
func InternalServerError(c echo.Context) error {
	return Error(c, http.StatusInternalServerError, CodeInternalError, MsgInternalError)
}
