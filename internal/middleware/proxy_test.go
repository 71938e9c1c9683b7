package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestTrustedProxies_RealIP(t *testing.T) {
	e := echo.New()
	TrustedProxies(e, []string{"not-a-range", "10.0.0.0/8"})

	tests := []struct {
		name   string
		remote string
		xff    string
		realIP string
		want   string
	}{
		{"untrusted peer ignores headers", "203.0.113.5:4000", "198.51.100.7", "", "203.0.113.5"},
		{"trusted peer forwards client", "10.0.0.2:4000", "198.51.100.7", "", "198.51.100.7"},
		{"trusted hops are skipped", "10.0.0.2:4000", "198.51.100.7, 10.0.0.9", "", "198.51.100.7"},
		{"spoofed leftmost entry ignored", "10.0.0.2:4000", "6.6.6.6, 198.51.100.7", "", "198.51.100.7"},
		{"x-real-ip from trusted peer", "10.0.0.2:4000", "", "198.51.100.9", "198.51.100.9"},
		{"x-real-ip from untrusted peer", "203.0.113.5:4000", "", "198.51.100.9", "203.0.113.5"},
		{"loopback not trusted unless listed", "127.0.0.1:4000", "198.51.100.7", "", "127.0.0.1"},
		{"no headers", "10.0.0.2:4000", "", "", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/widgets/w-1/sessions", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set(echo.HeaderXForwardedFor, tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set(echo.HeaderXRealIP, tt.realIP)
			}
			c := e.NewContext(req, httptest.NewRecorder())
			if got := c.RealIP(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
