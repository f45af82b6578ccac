// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/deppfellow/items-api/internal/handler"
	"github.com/deppfellow/items-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

// New builds the Echo instance: global middleware in order, the global error
// handler, the /api/items routes, and the system routes.
//
// Middleware order matters: recovery first so panics anywhere below become
// 500s, then request ID so the context enhancer and request logger can
// correlate entries.
func New(m *middleware.Middlewares, h *handler.Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = m.Global.GlobalErrorHandler

	e.Use(
		m.Global.Recover(),
		middleware.RequestID(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		m.Global.CORS(),
		m.Global.Secure(),
	)

	registerItemRoutes(e, h)
	registerSystemRoutes(e, h)

	return e
}

// registerItemRoutes maps the /api/items dispatch table onto Echo routes.
// Everything not matched here falls through to the 404 funnel.
func registerItemRoutes(e *echo.Echo, h *handler.Handlers) {
	items := e.Group("/api/items")

	items.GET("", h.Items.List)
	items.POST("", h.Items.Create())
	items.PUT("/:id", h.Items.Update())
	items.DELETE("/:id", h.Items.Delete)
}
