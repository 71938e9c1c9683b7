package middleware

import (
	"github.com/labstack/echo/v4"
)

// SecurityHeaders returns middleware that sets security-related HTTP headers
// on every response. frameAncestors is the CSP frame-ancestors source list
// naming the sites allowed to embed picker pages, e.g. "'self'" or
// "https://shop.example.com".
//
// TLS is terminated by the reverse proxy in front of the service. These
// headers apply at the application layer regardless.
func SecurityHeaders(frameAncestors string) echo.MiddlewareFunc {
	if frameAncestors == "" {
		frameAncestors = "'none'"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			// Content-Security-Policy: restrict what resources the browser can load.
			// 'unsafe-inline' is needed for the inline picker styles and the
			// hx-* attributes HTMX reads.
			h.Set("Content-Security-Policy",
				"default-src 'self'; "+
					"script-src 'self' 'unsafe-inline' https://unpkg.com; "+
					"style-src 'self' 'unsafe-inline'; "+
					"img-src 'self' data:; "+
					"connect-src 'self'; "+
					"frame-ancestors "+frameAncestors+"; "+
					"base-uri 'self'; "+
					"form-action 'self'",
			)

			// Strict-Transport-Security: enforce HTTPS for 1 year including subdomains.
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

			// X-Content-Type-Options: prevent MIME type sniffing.
			h.Set("X-Content-Type-Options", "nosniff")

			// X-Frame-Options only has DENY and SAMEORIGIN; anything wider is
			// left to the CSP frame-ancestors directive.
			switch frameAncestors {
			case "'none'":
				h.Set("X-Frame-Options", "DENY")
			case "'self'":
				h.Set("X-Frame-Options", "SAMEORIGIN")
			}

			// Referrer-Policy: limit referrer information leaked to external sites.
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Permissions-Policy: disable browser features we don't use.
			h.Set("Permissions-Policy",
				"camera=(), microphone=(), geolocation=(), payment=()",
			)

			return next(c)
		}
	}
}
