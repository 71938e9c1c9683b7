package pickers

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/datepicker/internal/middleware"
)

// RouteConfig holds the settings routes need beyond the handler.
type RouteConfig struct {
	// SessionLimit caps session creations per client per SessionWindow.
	SessionLimit  int
	SessionWindow time.Duration
}

// RegisterRoutes sets up widget, session and picker page routes.
// API routes are JSON and skip CSRF; page routes are HTMX-driven and rely
// on the global CSRF middleware.
func RegisterRoutes(e *echo.Echo, h *Handler, rdb *redis.Client, cfg RouteConfig) {
	openLimit := middleware.RateLimit(rdb, "sessions", cfg.SessionLimit, cfg.SessionWindow)

	api := e.Group("/api/v1")

	// Widget CRUD.
	api.GET("/widgets", h.ListWidgetsAPI)
	api.POST("/widgets", h.CreateWidgetAPI)
	api.GET("/widgets/:wid", h.GetWidgetAPI)
	api.PUT("/widgets/:wid", h.UpdateWidgetAPI)
	api.DELETE("/widgets/:wid", h.DeleteWidgetAPI)
	api.POST("/widgets/:wid/highlights/ics", h.ImportHighlightsAPI)

	// Sessions. Opening one is rate limited per client.
	api.POST("/widgets/:wid/sessions", h.OpenSessionAPI, openLimit)
	api.GET("/sessions/:token", h.GetSessionAPI)
	api.DELETE("/sessions/:token", h.CloseSessionAPI)
	api.POST("/sessions/:token/navigate", h.NavigateAPI)
	api.POST("/sessions/:token/click", h.ClickAPI)
	api.POST("/sessions/:token/hover", h.HoverAPI)

	// Server-rendered pickers.
	e.GET("/embed/:wid", h.Embed, openLimit)
	pg := e.Group("/pickers/:token")
	pg.GET("", h.Show)
	pg.POST("/navigate", h.Navigate)
	pg.POST("/click", h.Click)
	pg.POST("/hover", h.Hover)
}
