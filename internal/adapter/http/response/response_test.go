package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEcho() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHealth(t *testing.T) {
	c, rec := setupEcho()
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))

	require.NoError(t, Health(c, now))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "ok", result.Status)
	assert.True(t, now.Equal(result.Time))
	assert.Contains(t, rec.Body.String(), "08:30:00Z", "time is reported in UTC")
}

func TestErrorWriters(t *testing.T) {
	tests := []struct {
		name       string
		write      func(c echo.Context) error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"invalid body", InvalidRequestBody, http.StatusBadRequest, CodeInvalidRequest, MsgInvalidRequestBody},
		{
			"validation message",
			func(c echo.Context) error { return ValidationErrorWithMessage(c, "expected 2 passengers, got 1") },
			http.StatusBadRequest, CodeValidationError, "expected 2 passengers, got 1",
		},
		{
			"session not found",
			func(c echo.Context) error { return NotFound(c, MsgSessionNotFound) },
			http.StatusNotFound, CodeNotFound, MsgSessionNotFound,
		},
		{
			"stage conflict",
			func(c echo.Context) error { return Conflict(c, "selection is not complete") },
			http.StatusConflict, CodeConflict, "selection is not complete",
		},
		{"unavailable", ServiceUnavailable, http.StatusServiceUnavailable, CodeServiceUnavailable, MsgServiceUnavailable},
		{"timeout", GatewayTimeout, http.StatusGatewayTimeout, CodeTimeout, MsgTimeout},
		{"cancelled", RequestCancelled, http.StatusGatewayTimeout, CodeTimeout, MsgRequestCancelled},
		{"internal", InternalServerError, http.StatusInternalServerError, CodeInternalError, MsgInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := setupEcho()

			require.NoError(t, tt.write(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var result ErrorDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
			assert.Equal(t, tt.wantCode, result.Code)
			assert.Equal(t, tt.wantMsg, result.Message)
			assert.Empty(t, result.Details)
		})
	}
}

func TestValidationError(t *testing.T) {
	c, rec := setupEcho()

	err := ValidationError(c, map[string]string{
		"from":       "from must be a 3-letter IATA code",
		"departDate": "departDate is required",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var result ErrorDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, CodeValidationError, result.Code)
	assert.Equal(t, MsgValidationFailed, result.Message)
	assert.Len(t, result.Details, 2)
	assert.Equal(t, "departDate is required", result.Details["departDate"])
}

func TestTooManyRequests(t *testing.T) {
	c, rec := setupEcho()

	require.NoError(t, TooManyRequests(c, "3"))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), CodeRateLimited)
}

func TestSuccessWriters(t *testing.T) {
	c, rec := setupEcho()
	require.NoError(t, Created(c, map[string]string{"sessionId": "abc"}))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"sessionId":"abc"}`, rec.Body.String())

	c, rec = setupEcho()
	require.NoError(t, OK(c, []int{1, 2}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[1,2]`, rec.Body.String())
}
