package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func headersFor(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Use(mw)
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSecurityHeaders_FrameAncestors(t *testing.T) {
	cases := []struct {
		ancestors string
		csp       string
		xfo       string
	}{
		{"", "frame-ancestors 'none'", "DENY"},
		{"'self'", "frame-ancestors 'self'", "SAMEORIGIN"},
		{"https://shop.example.com", "frame-ancestors https://shop.example.com", ""},
	}
	for _, tc := range cases {
		rec := headersFor(t, SecurityHeaders(tc.ancestors), httptest.NewRequest(http.MethodGet, "/", nil))
		if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, tc.csp) {
			t.Errorf("ancestors %q: CSP %q missing %q", tc.ancestors, csp, tc.csp)
		}
		if got := rec.Header().Get("X-Frame-Options"); got != tc.xfo {
			t.Errorf("ancestors %q: X-Frame-Options = %q, want %q", tc.ancestors, got, tc.xfo)
		}
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Error("expected nosniff")
		}
	}
}

func TestCSRF_RejectsMissingToken(t *testing.T) {
	e := echo.New()
	e.Use(CSRF())
	e.POST("/pickers/x/click", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.POST("/api/v1/sessions/x/click", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pickers/x/click", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/pickers/x/click", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "abc"})
	req.Header.Set(csrfHeaderName, "abc")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with matching token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/x/click", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected API route to skip CSRF, got %d", rec.Code)
	}
}
