package errors

import (
	"net/http"
	"strings"
)

type networkClass struct {
	needles []string
	status  int
	code    string
	errType string
	prefix  string
}

var networkClasses = []networkClass{
	{[]string{"timeout", "deadline exceeded"}, http.StatusGatewayTimeout, "timeout", "timeout_error", "Request timeout"},
	{[]string{"connection refused"}, http.StatusBadGateway, "connection_error", "server_error", "Connection refused"},
	{[]string{"EOF", "connection reset"}, http.StatusBadGateway, "connection_error", "server_error", "Connection error"},
	{[]string{"no such host", "name resolution"}, http.StatusBadGateway, "dns_error", "server_error", "DNS resolution error"},
	{[]string{"certificate", "tls"}, http.StatusBadGateway, "tls_error", "server_error", "TLS/Certificate error"},
	{[]string{"context canceled"}, http.StatusRequestTimeout, "request_canceled", "timeout_error", "Request was canceled"},
}

// MapNetworkError classifies a transport-level error from the generative
// backend into a gateway-appropriate APIError. Unrecognized errors become a
// generic 502.
func MapNetworkError(err error) *APIError {
	msg := err.Error()
	for _, nc := range networkClasses {
		for _, needle := range nc.needles {
			if strings.Contains(msg, needle) {
				return New(nc.status, nc.code, nc.errType, nc.prefix+": "+msg)
			}
		}
	}
	return New(http.StatusBadGateway, "network_error", "server_error", "Network error: "+msg)
}
