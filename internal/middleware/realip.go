package middleware

import (
	"net"

	"github.com/labstack/echo/v4"
)

// IPExtractor decides which address identifies the client for the login
// and API limiters. With no trusted proxies the connection address is used
// and X-Forwarded-For is ignored. Otherwise the header is walked from the
// right, skipping hops inside the trusted ranges.
func IPExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, r := range trusted {
		opts = append(opts, echo.TrustIPRange(r))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
