// data.go provides typed context helpers for passing layout data from
// handlers to Templ components. Only simple types are stored so the layouts
// package never imports plugin types.
//
// Data flow: Handler → Go Context → Templ
package layouts

import (
	"context"
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/datepicker/internal/middleware"
)

// ctxKey is a private type for context keys to prevent collisions.
type ctxKey string

const (
	keyEmbedded ctxKey = "layout_embedded"
	keyTheme    ctxKey = "layout_theme"
)

// Themes the page shell knows how to style.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// WithEmbedded marks the page as rendered inside a host site's iframe. The
// shell then drops its own heading and margins.
func WithEmbedded(ctx context.Context, embedded bool) context.Context {
	return context.WithValue(ctx, keyEmbedded, embedded)
}

// IsEmbedded reports whether the page is framed by a host site.
func IsEmbedded(ctx context.Context) bool {
	v, _ := ctx.Value(keyEmbedded).(bool)
	return v
}

// WithTheme sets the colour theme. Unknown values fall back to light.
func WithTheme(ctx context.Context, theme string) context.Context {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return context.WithValue(ctx, keyTheme, theme)
}

// GetTheme returns the colour theme, light by default.
func GetTheme(ctx context.Context) string {
	if v, ok := ctx.Value(keyTheme).(string); ok {
		return v
	}
	return ThemeLight
}

// csrfHeaders is the hx-headers value that sends the CSRF token with every
// HTMX request from the page.
func csrfHeaders(ctx context.Context) (string, error) {
	return templ.JSONString(map[string]string{"X-CSRF-Token": middleware.CSRFTokenFromContext(ctx)})
}

func errorTitle(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}
