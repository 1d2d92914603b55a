package netutil

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractClientIP returns the client IP using common proxy headers.
func ExtractClientIP(c *gin.Context) net.IP {
	if c == nil {
		return nil
	}
	return ExtractIPFromRequest(c.Request)
}

// ExtractIPFromRequest extracts an IP from HTTP headers or remote address.
func ExtractIPFromRequest(r *http.Request) net.IP {
	if r == nil {
		return nil
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first := strings.TrimSpace(strings.SplitN(xf, ",", 2)[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip
		}
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		if ip := net.ParseIP(strings.TrimSpace(xr)); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		host = strings.TrimSpace(r.RemoteAddr)
	}
	return net.ParseIP(host)
}

// ClassifyClientSource categorizes the IP origin for request logging.
func ClassifyClientSource(ip net.IP) string {
	switch {
	case ip == nil:
		return "unknown"
	case ip.IsLoopback():
		return "loopback"
	case ip.IsPrivate():
		return "private"
	default:
		return "public"
	}
}
