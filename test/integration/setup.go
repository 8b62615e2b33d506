// Package integration provides helpers and integration tests for the flight booking system.
// Integration tests verify that components work together correctly, including
// HTTP handlers, middleware, the results use case, session stores and mock searchers.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"

	httpAdapter "github.com/flight-search/flight-booking-system/internal/adapter/http"
	"github.com/flight-search/flight-booking-system/internal/adapter/http/middleware"
	"github.com/flight-search/flight-booking-system/internal/adapter/http/response"
	"github.com/flight-search/flight-booking-system/internal/adapter/store"
	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/ratelimit"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/retry"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/timeutil"
	"github.com/flight-search/flight-booking-system/internal/usecase"
)

// TestServer wraps an Echo instance and provides helper methods for integration testing.
type TestServer struct {
	Echo    *echo.Echo
	Handler *httpAdapter.ResultsHandler
}

// NewTestServer creates a test server with the full middleware stack and
// the given use case. A nil limiter disables throttling.
func NewTestServer(uc usecase.ResultsUseCase, limiter *ratelimit.Limiter) *TestServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	middleware.Setup(e, logger.Nop().Logger, middleware.Options{Limiter: limiter})

	handler := httpAdapter.NewResultsHandler(uc)
	httpAdapter.RegisterRoutes(e, handler)

	return &TestServer{
		Echo:    e,
		Handler: handler,
	}
}

// Request represents a test HTTP request configuration.
type Request struct {
	Method      string
	Path        string
	Body        any
	ContentType string
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(req Request) Response {
	var bodyReader *bytes.Reader
	if req.Body != nil {
		bodyBytes, _ := json.Marshal(req.Body)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bodyReader)

	if req.ContentType != "" {
		httpReq.Header.Set(echo.HeaderContentType, req.ContentType)
	} else if req.Body != nil {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, httpReq)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// StartSearch posts a new search.
func (ts *TestServer) StartSearch(body any) Response {
	return ts.Do(Request{Method: http.MethodPost, Path: "/api/v1/searches", Body: body})
}

// Session issues a request against one session's sub-resource.
func (ts *TestServer) Session(method, sessionID, suffix string, body any) Response {
	return ts.Do(Request{Method: method, Path: "/api/v1/searches/" + sessionID + suffix, Body: body})
}

// HealthRequest makes a health check request.
func (ts *TestServer) HealthRequest() Response {
	return ts.Do(Request{Method: http.MethodGet, Path: "/health"})
}

// ParseView parses the response body as a results view.
func (r *Response) ParseView() (*httpAdapter.ResultsViewDTO, error) {
	var view httpAdapter.ResultsViewDTO
	if err := json.Unmarshal(r.Body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ParseError parses the response body as an error payload.
func (r *Response) ParseError() (*response.ErrorDetail, error) {
	var detail response.ErrorDetail
	if err := json.Unmarshal(r.Body, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DefaultSearchRequest returns a valid round-trip request matching mock.SampleItineraries.
func DefaultSearchRequest() httpAdapter.StartSearchRequest {
	return httpAdapter.StartSearchRequest{
		From:       "JFK",
		To:         "LHR",
		DepartDate: "2024-06-01",
		ReturnDate: "2024-06-08",
		Adults:     1,
	}
}

// DefaultQuery is DefaultSearchRequest for driving the use case directly.
func DefaultQuery() domain.SearchQuery {
	req := DefaultSearchRequest()
	return httpAdapter.ToDomainQuery(&req)
}

// DefaultBooking returns a booking for one adult.
func DefaultBooking() domain.BookingRequest {
	return domain.BookingRequest{
		Passengers: []domain.Passenger{{Type: domain.PassengerAdult, FirstName: "Ana", LastName: "Silva"}},
		Contact:    domain.Contact{Email: "ana@example.com"},
	}
}

// TestConfig returns a use case config with short timeouts and fast retries.
func TestConfig() *usecase.Config {
	return &usecase.Config{
		SearchTimeout:   2 * time.Second,
		SearcherTimeout: time.Second,
		Retry: retry.Config{
			MaxAttempts:  2,
			InitialDelay: 5 * time.Millisecond,
			MaxDelay:     20 * time.Millisecond,
			Multiplier:   2,
		},
		Clock:  timeutil.NewRealClock(),
		Logger: logger.Nop(),
	}
}

// CreateUseCase creates a use case over an in-memory session store.
func CreateUseCase(searchers ...domain.FlightSearcher) usecase.ResultsUseCase {
	return CreateUseCaseWithStore(store.NewMemory(time.Hour, timeutil.NewRealClock(), logger.Nop()), searchers...)
}

// CreateUseCaseWithStore creates a use case over the given session store.
func CreateUseCaseWithStore(sessions domain.SessionStore, searchers ...domain.FlightSearcher) usecase.ResultsUseCase {
	return CreateUseCaseWithConfig(sessions, TestConfig(), searchers...)
}

// CreateUseCaseWithConfig creates a use case with custom configuration.
func CreateUseCaseWithConfig(sessions domain.SessionStore, config *usecase.Config, searchers ...domain.FlightSearcher) usecase.ResultsUseCase {
	return usecase.NewResultsUseCase(searchers, sessions, config)
}
