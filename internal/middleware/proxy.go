package middleware

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
)

// TrustedProxies points c.RealIP() at the visitor instead of the reverse
// proxy in front of the picker server. The session rate limiter keys on
// c.RealIP(), so an untrusted forwarding header must never be honored.
//
// X-Real-IP wins when a trusted proxy sets it. Otherwise X-Forwarded-For is
// walked from the right and the first hop outside the trusted ranges is the
// client. Only the listed ranges are trusted; echo's default trust of
// loopback and private networks is switched off.
func TrustedProxies(e *echo.Echo, trustedCIDRs []string) {
	e.IPExtractor = pickerIPExtractor(trustOptions(trustedCIDRs))
}

// trustOptions converts CIDR strings into echo trust options. Invalid
// entries are logged and skipped.
func trustOptions(trustedCIDRs []string) []echo.TrustOption {
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedCIDRs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			slog.Warn("ignoring invalid trusted proxy range",
				slog.String("cidr", cidr),
				slog.Any("error", err),
			)
			continue
		}
		opts = append(opts, echo.TrustIPRange(network))
	}
	return opts
}

func pickerIPExtractor(opts []echo.TrustOption) echo.IPExtractor {
	fromRealIP := echo.ExtractIPFromRealIPHeader(opts...)
	fromXFF := echo.ExtractIPFromXFFHeader(opts...)
	return func(req *http.Request) string {
		if req.Header.Get(echo.HeaderXRealIP) != "" {
			return fromRealIP(req)
		}
		return fromXFF(req)
	}
}
