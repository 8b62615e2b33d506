package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all results page API routes.
// It creates a versioned API group and attaches the handler methods.
func RegisterRoutes(e *echo.Echo, h *ResultsHandler) {
	RegisterRoutesWithMiddleware(e, h)
}

// RegisterRoutesWithMiddleware registers routes with custom middleware on the API group.
// This allows for endpoint-specific middleware configuration.
func RegisterRoutesWithMiddleware(e *echo.Echo, h *ResultsHandler, middleware ...echo.MiddlewareFunc) {
	// Health check endpoint (no version prefix, no middleware)
	e.GET("/health", h.Health)

	// API v1 group with middleware
	api := e.Group("/api/v1", middleware...)

	searches := api.Group("/searches")
	searches.POST("", h.StartSearch)
	searches.GET("/:id", h.GetView)
	searches.POST("/:id/refresh", h.Refresh)
	searches.PUT("/:id/filters", h.UpdateFilters)
	searches.PUT("/:id/sort", h.UpdateSort)
	searches.POST("/:id/selection", h.Select)
	searches.POST("/:id/selection/reset", h.ResetSelection)
	searches.GET("/:id/handoff", h.Handoff)
	searches.POST("/:id/bookings", h.Book)
}
