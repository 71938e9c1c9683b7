package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORS_AllowsListedOrigin(t *testing.T) {
	mw := CORS([]string{"https://shop.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := headersFor(t, mw, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Errorf("expected origin echoed, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Error("expected credentials never allowed")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = headersFor(t, mw, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header for unlisted origin, got %q", got)
	}
}

func TestCORS_ExposesPickerHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := headersFor(t, CORS([]string{"*"}), req)

	exposed := rec.Header().Get("Access-Control-Expose-Headers")
	for _, want := range []string{"HX-Trigger", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"} {
		if !strings.Contains(exposed, want) {
			t.Errorf("expected %s exposed, got %q", want, exposed)
		}
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Errorf("expected Vary: Origin, got %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := headersFor(t, CORS([]string{"https://shop.example.com"}), req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if methods := rec.Header().Get("Access-Control-Allow-Methods"); strings.Contains(methods, http.MethodPatch) || !strings.Contains(methods, http.MethodPut) {
		t.Errorf("unexpected methods %q", methods)
	}
	headers := rec.Header().Get("Access-Control-Allow-Headers")
	for _, want := range []string{"Content-Type", "X-CSRF-Token", "HX-Request"} {
		if !strings.Contains(headers, want) {
			t.Errorf("expected %s allowed, got %q", want, headers)
		}
	}
	if rec.Header().Get("Access-Control-Expose-Headers") != "" {
		t.Error("expected no expose list on a preflight")
	}
}
