package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

var (
	// corsMethods are the verbs the widget and session API answer to.
	corsMethods = strings.Join([]string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
	}, ", ")

	// corsAllowHeaders lets a host page drive a picker with htmx.
	corsAllowHeaders = strings.Join([]string{
		echo.HeaderContentType,
		csrfHeaderName,
		"HX-Request",
		"HX-Current-URL",
		"HX-Target",
		"HX-Trigger",
	}, ", ")

	// corsExposeHeaders are readable by host scripts: the change event a
	// click announces and the session budget of the rate limiter.
	corsExposeHeaders = strings.Join([]string{
		"HX-Trigger",
		HeaderRateLimitLimit,
		HeaderRateLimitRemaining,
		echo.HeaderRetryAfter,
	}, ", ")
)

// CORS returns middleware that lets the listed host sites call the picker
// from their own origin. ["*"] admits every origin. Requests from other
// origins pass through without CORS headers and the browser blocks them.
//
// No cookies are involved in the cross-origin API, so credentials are never
// allowed.
func CORS(allowedOrigins []string) echo.MiddlewareFunc {
	allowAll := false
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		originSet[o] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			origin := req.Header.Get(echo.HeaderOrigin)
			if origin == "" || !(allowAll || originSet[origin]) {
				return next(c)
			}

			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, origin)
			h.Add(echo.HeaderVary, echo.HeaderOrigin)

			if req.Method == http.MethodOptions {
				h.Set(echo.HeaderAccessControlAllowMethods, corsMethods)
				h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
				h.Set(echo.HeaderAccessControlMaxAge, "3600")
				return c.NoContent(http.StatusNoContent)
			}

			h.Set(echo.HeaderAccessControlExposeHeaders, corsExposeHeaders)
			return next(c)
		}
	}
}
