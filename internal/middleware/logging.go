// Package middleware provides HTTP middleware for the picker Echo server.
// Middleware is applied globally (all routes) or per-route group depending
// on the middleware type. See internal/app/routes.go for registration.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// tokenLogPrefix is how much of a session token reaches the logs. The full
// token grants access to the session, so only a correlating prefix is kept.
const tokenLogPrefix = 8

// quietPaths are polled by orchestrators and scrapers and log at debug.
var quietPaths = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// RequestLogger returns middleware that logs every request once it has been
// answered. Errors are handed to the error handler first so the logged
// status is the one the client saw.
//
// Besides method, route, status and latency, the entry carries the widget
// ID and a session token prefix when the route has them, whether HTMX made
// the call, the event announced in HX-Trigger, and the remaining session
// budget set by RateLimit.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			attrs := append([]slog.Attr{
				slog.String("method", req.Method),
				slog.String("route", c.Path()),
				slog.String("path", req.URL.Path),
				slog.Int("status", res.Status),
				slog.Duration("latency", time.Since(start)),
				slog.String("remote_ip", c.RealIP()),
			}, pickerAttrs(c)...)

			slog.LogAttrs(req.Context(), requestLevel(req.URL.Path, res.Status), "request", attrs...)
			return nil
		}
	}
}

// pickerAttrs collects the picker-specific fields of a request.
func pickerAttrs(c echo.Context) []slog.Attr {
	var attrs []slog.Attr
	if wid := c.Param("wid"); wid != "" {
		attrs = append(attrs, slog.String("widget_id", wid))
	}
	if token := c.Param("token"); token != "" {
		attrs = append(attrs, slog.String("session", tokenPrefix(token)))
	}
	if IsHTMX(c) {
		attrs = append(attrs, slog.Bool("htmx", true))
	}
	h := c.Response().Header()
	if ev := h.Get("HX-Trigger"); ev != "" {
		attrs = append(attrs, slog.String("event", ev))
	}
	if remaining := h.Get(HeaderRateLimitRemaining); remaining != "" {
		attrs = append(attrs, slog.String("rate_limit_remaining", remaining))
	}
	return attrs
}

func tokenPrefix(token string) string {
	if len(token) <= tokenLogPrefix {
		return token
	}
	return token[:tokenLogPrefix]
}

func requestLevel(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case quietPaths[path]:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
