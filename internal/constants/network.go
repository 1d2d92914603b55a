package constants

import "time"

// HTTP transport defaults shared by the upstream client, the content fetcher
// and the asset publisher.
const (
	DefaultDialTimeout           = 10 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
	DefaultResponseHeaderTimeout = 120 * time.Second
	DefaultExpectContinueTimeout = 1 * time.Second

	BaseMaxIdleConns        = 100
	BaseMaxIdleConnsPerHost = 10
)

// Redirect resolution bounds (citation link annotation).
const (
	RedirectMaxHops = 10
	RedirectTimeout = 5 * time.Second
)

// Upload defaults for the asset publisher.
const (
	UploadTimeout      = 30 * time.Second
	HealthProbeTimeout = 5 * time.Second
)

// Graceful shutdown bounds for the HTTP server.
const (
	ServerShutdownTimeout = 10 * time.Second
)
