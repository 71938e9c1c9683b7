package middleware

import (
	"context"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

type csrfContextKey struct{}

// CSRFTokenFromContext returns the CSRF token Render placed in the Go
// context, so Templ components can emit it without an echo.Context.
func CSRFTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(csrfContextKey{}).(string); ok {
		return token
	}
	return ""
}

// IsHTMX returns true if the current request was initiated by HTMX and is NOT
// a boosted navigation. Boosted requests (hx-boost="true") behave like normal
// page navigations; they expect full page responses so hx-select can extract
// the target element. Handlers use this to decide whether to return a fragment
// or full page.
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true" &&
		c.Request().Header.Get("HX-Boosted") != "true"
}

// Render writes a Templ component to the response with the given status code.
// The request's CSRF token is copied into the Go context for the component.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	ctx := c.Request().Context()
	if token := GetCSRFToken(c); token != "" {
		ctx = context.WithValue(ctx, csrfContextKey{}, token)
	}

	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Response().WriteHeader(statusCode)
	return component.Render(ctx, c.Response().Writer)
}
