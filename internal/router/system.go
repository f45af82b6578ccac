package router

import (
	"github.com/deppfellow/items-api/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of business logic:
//
//  1. Health endpoint (used by orchestrators/monitors)
//  2. Static landing page at / plus its assets
func registerSystemRoutes(e *echo.Echo, h *handler.Handlers) {
	e.GET("/status", h.Health.CheckHealth)

	// The single static asset the bootstrap owns, plus any future assets
	// under ./static.
	e.File("/", "static/index.html")
	e.Static("/static", "static")
}
