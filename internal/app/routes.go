package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keyxmakerx/datepicker/internal/plugins/pickers"
)

// healthTimeout bounds each dependency check of /healthz.
const healthTimeout = 2 * time.Second

// RegisterRoutes sets up all application routes. It registers the
// operational routes directly and delegates to the pickers plugin.
//
// This is the single place where all routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// Health check endpoint for container health monitoring.
	e.GET("/healthz", a.healthz)

	// Prometheus scrape endpoint.
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Plugin Routes ---

	repo := pickers.NewWidgetRepository(a.DB)
	store := pickers.NewSessionStore(a.Redis, a.Config.Picker.SessionTTL)
	svc := pickers.NewPickerService(repo, store, a.Publisher, a.Config.Picker)
	pickers.RegisterRoutes(e, pickers.NewHandler(svc), a.Redis, pickers.RouteConfig{
		SessionLimit:  a.Config.HTTP.RateLimitSessions,
		SessionWindow: a.Config.HTTP.RateLimitWindow,
	})
}

// healthz reports whether MariaDB and Redis are reachable.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	checks := map[string]string{"database": "ok", "redis": "ok"}
	status := http.StatusOK
	if err := a.DB.PingContext(ctx); err != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	return c.JSON(status, map[string]any{
		"status": state,
		"checks": checks,
	})
}
