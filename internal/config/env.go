package config

import (
	"os"
	"strconv"
	"strings"
)

// loadFromEnv loads configuration from environment variables only.
func loadFromEnv() *Config {
	defaults := GetDefaults()

	cfg := &Config{
		Port:     getenv("PORT", defaults.Port),
		BasePath: normalizeBasePath(getenv("BASE_PATH", defaults.BasePath)),
		Debug:    getenvBool("DEBUG", false),
		LogFile:  getenv("LOG_FILE", ""),

		APIKeys: splitAndTrim(getenv("API_KEYS", ""), ","),

		GeminiEndpoint: strings.TrimRight(getenv("GEMINI_ENDPOINT", defaults.GeminiEndpoint), "/"),
		GeminiAPIKey:   getenv("GEMINI_API_KEY", ""),
		ProxyURL:       getenv("PROXY_URL", ""),

		RewriteHostname: getenv("FETCH_REWRITE_HOSTNAME", ""),
		RewriteProtocol: getenv("FETCH_REWRITE_PROTOCOL", "http"),
		RewriteHost:     getenv("FETCH_REWRITE_HOST", ""),
		RewritePort:     getenv("FETCH_REWRITE_PORT", ""),

		UploadURL:      getenv("UPLOAD_URL", ""),
		BucketProtocol: getenv("BUCKET_PROTOCOL", defaults.BucketProtocol),
		BucketDomain:   getenv("BUCKET_DOMAIN", ""),
		BucketPort:     getenv("BUCKET_PORT", defaults.BucketPort),
		BucketAPIKey:   getenv("BUCKET_API_KEY", ""),
	}

	setIntFromEnv("DIAL_TIMEOUT_SEC", func(n int) { cfg.DialTimeoutSec = n })
	setIntFromEnv("TLS_HANDSHAKE_TIMEOUT_SEC", func(n int) { cfg.TLSHandshakeTimeoutSec = n })
	setIntFromEnv("RESPONSE_HEADER_TIMEOUT_SEC", func(n int) { cfg.ResponseHeaderTimeoutSec = n })

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setIntFromEnv(key string, setter func(int)) {
	if v := getenv(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			setter(n)
		}
	}
}

func splitAndTrim(input, sep string) []string {
	parts := strings.Split(input, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeBasePath(raw string) string {
	path := strings.TrimSpace(raw)
	if path == "" || path == "/" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	path = strings.TrimRight(path, "/")
	return path
}
