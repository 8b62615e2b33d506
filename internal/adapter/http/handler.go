// Package http provides the HTTP handler layer for the flight booking API.
// It handles request parsing, validation, response formatting, and error mapping.
package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flight-search/flight-booking-system/internal/adapter/http/response"
	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
	"github.com/flight-search/flight-booking-system/internal/usecase"
)

// ResultsHandler handles HTTP requests for the results page and booking hand-off.
type ResultsHandler struct {
	useCase usecase.ResultsUseCase
}

// NewResultsHandler creates a new ResultsHandler with the given use case.
func NewResultsHandler(uc usecase.ResultsUseCase) *ResultsHandler {
	return &ResultsHandler{
		useCase: uc,
	}
}

// StartSearch handles POST /api/v1/searches
//
// @Summary Start a search
// @Description Open a results page for the route state and run the first search. Upstream failures yield an empty page with searchFailed set.
// @Tags searches
// @Accept json
// @Produce json
// @Param request body StartSearchRequest true "Route state"
// @Success 201 {object} ResultsViewDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Router /searches [post]
func (h *ResultsHandler) StartSearch(c echo.Context) error {
	var req StartSearchRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	view, err := h.useCase.StartSearch(c.Request().Context(), ToDomainQuery(&req))
	if err != nil {
		return h.handleError(c, err)
	}
	return response.Created(c, ToResultsViewDTO(view))
}

// GetView handles GET /api/v1/searches/:id
//
// @Summary Get the results page
// @Description Return the filtered, sorted and partitioned results. A sortBy query parameter changes and persists the sort order.
// @Tags searches
// @Produce json
// @Param id path string true "Session ID"
// @Param sortBy query string false "Sort key" Enums(best, price-asc, price-desc, duration-asc, departure-asc)
// @Success 200 {object} ResultsViewDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /searches/{id} [get]
func (h *ResultsHandler) GetView(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("id")

	var (
		view usecase.ResultsView
		err  error
	)
	if sortBy := c.QueryParam("sortBy"); sortBy != "" {
		req := SortRequest{SortBy: sortBy}
		if verr := req.Validate(); verr != nil {
			return h.handleValidationError(c, verr)
		}
		view, err = h.useCase.UpdateSort(ctx, sessionID, domain.ParseSortKey(sortBy))
	} else {
		view, err = h.useCase.View(ctx, sessionID)
	}
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToResultsViewDTO(view))
}

// Refresh handles POST /api/v1/searches/:id/refresh
//
// @Summary Refresh a search
// @Description Re-run the search of a session. Results of an older search that completes later are discarded.
// @Tags searches
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} ResultsViewDTO
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /searches/{id}/refresh [post]
func (h *ResultsHandler) Refresh(c echo.Context) error {
	view, err := h.useCase.Refresh(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToResultsViewDTO(view))
}

// UpdateFilters handles PUT /api/v1/searches/:id/filters
//
// @Summary Replace the filters
// @Description Replace the filter state of a results page. Price bounds are clamped to the observed prices.
// @Tags searches
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body FiltersRequest true "Filter state"
// @Success 200 {object} ResultsViewDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /searches/{id}/filters [put]
func (h *ResultsHandler) UpdateFilters(c echo.Context) error {
	var req FiltersRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	view, err := h.useCase.UpdateFilters(c.Request().Context(), c.Param("id"), ToDomainFilters(&req))
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToResultsViewDTO(view))
}

// UpdateSort handles PUT /api/v1/searches/:id/sort
//
// @Summary Change the sort order
// @Tags searches
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SortRequest true "Sort key"
// @Success 200 {object} ResultsViewDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /searches/{id}/sort [put]
func (h *ResultsHandler) UpdateSort(c echo.Context) error {
	var req SortRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	view, err := h.useCase.UpdateSort(c.Request().Context(), c.Param("id"), domain.ParseSortKey(req.SortBy))
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToResultsViewDTO(view))
}

// Select handles POST /api/v1/searches/:id/selection
//
// @Summary Select an itinerary
// @Description Choose a departure or return among the candidates of the current stage.
// @Tags selection
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SelectRequest true "Itinerary"
// @Success 200 {object} ResultsViewDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 404 {object} response.ErrorDetail "Session or itinerary not found"
// @Failure 409 {object} response.ErrorDetail "Selection already complete"
// @Router /searches/{id}/selection [post]
func (h *ResultsHandler) Select(c echo.Context) error {
	var req SelectRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	view, err := h.useCase.Select(c.Request().Context(), c.Param("id"), req.ItineraryID)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToResultsViewDTO(view))
}

// ResetSelection handles POST /api/v1/searches/:id/selection/reset
//
// @Summary Go back to an earlier stage
// @Description choosing-departure clears both selections, choosing-return clears the return selection.
// @Tags selection
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body ResetSelectionRequest true "Target stage"
// @Success 200 {object} ResultsViewDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Failure 409 {object} response.ErrorDetail "Invalid transition"
// @Router /searches/{id}/selection/reset [post]
func (h *ResultsHandler) ResetSelection(c echo.Context) error {
	var req ResetSelectionRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}
	stage, _ := domain.ParseStage(req.Stage)

	view, err := h.useCase.ResetSelection(c.Request().Context(), c.Param("id"), stage)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToResultsViewDTO(view))
}

// Handoff handles GET /api/v1/searches/:id/handoff
//
// @Summary Get the booking hand-off
// @Description The combined itinerary and passenger count passed to the passenger-details screen.
// @Tags booking
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} HandoffDTO
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Failure 409 {object} response.ErrorDetail "Selection not complete"
// @Router /searches/{id}/handoff [get]
func (h *ResultsHandler) Handoff(c echo.Context) error {
	handoff, err := h.useCase.Handoff(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToHandoffDTO(handoff))
}

// Book handles POST /api/v1/searches/:id/bookings
//
// @Summary Confirm passenger details
// @Description Confirm the booking of the completed selection. Repeating the call returns the same confirmation.
// @Tags booking
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body BookingRequest true "Passenger details"
// @Success 201 {object} domain.BookingConfirmation
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Failure 409 {object} response.ErrorDetail "Selection not complete"
// @Router /searches/{id}/bookings [post]
func (h *ResultsHandler) Book(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	confirmation, err := h.useCase.Book(c.Request().Context(), c.Param("id"), ToDomainBooking(&req))
	if err != nil {
		return h.handleError(c, err)
	}
	return response.Created(c, confirmation)
}

// handleValidationError handles validation errors and returns a 400 response.
func (h *ResultsHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	// Fallback for non-structured validation errors
	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps domain errors to appropriate HTTP responses.
func (h *ResultsHandler) handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return response.ValidationErrorWithMessage(c, err.Error())

	case errors.Is(err, domain.ErrSessionNotFound):
		return response.NotFound(c, response.MsgSessionNotFound)

	case errors.Is(err, domain.ErrItineraryNotFound):
		return response.NotFound(c, errorMessage(err))

	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrPreconditionViolation),
		errors.Is(err, domain.ErrSessionConflict):
		return response.Conflict(c, errorMessage(err))

	case errors.Is(err, domain.ErrSearchUnavailable):
		return response.ServiceUnavailable(c)

	case errors.Is(err, domain.ErrSearchTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return response.GatewayTimeout(c)

	case errors.Is(err, context.Canceled):
		return response.RequestCancelled(c)
	}

	// Default to internal server error
	logger.Error().Err(err).Str("route", c.Path()).Msg("Unhandled error")
	return response.InternalServerError(c)
}

// Health handles GET /health
func (h *ResultsHandler) Health(c echo.Context) error {
	return response.Health(c, time.Now())
}

// errorMessage upper-cases the first letter of an error chain for display.
func errorMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
