package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Load builds the configuration from the environment only.
func Load() *Config {
	return loadFromEnv()
}

// LoadWithFile layers a YAML/JSON config file over the environment values.
// Environment wins for fields the file leaves empty; a missing file is not an
// error.
func LoadWithFile(path string) *Config {
	cfg := loadFromEnv()
	if path == "" {
		return cfg
	}

	fileCfg, err := readFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("path", path).Warn("failed to read config file; using environment only")
		}
		return cfg
	}

	merge(cfg, fileCfg)
	log.WithField("path", path).Info("configuration loaded")
	return cfg
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	return &cfg, nil
}

// merge copies non-zero file values over the env-derived config.
func merge(dst, src *Config) {
	if src.Port != "" {
		dst.Port = src.Port
	}
	if src.BasePath != "" {
		dst.BasePath = normalizeBasePath(src.BasePath)
	}
	if src.Debug {
		dst.Debug = true
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	if len(src.APIKeys) > 0 {
		dst.APIKeys = src.APIKeys
	}
	if src.GeminiEndpoint != "" {
		dst.GeminiEndpoint = strings.TrimRight(src.GeminiEndpoint, "/")
	}
	if src.GeminiAPIKey != "" {
		dst.GeminiAPIKey = src.GeminiAPIKey
	}
	if src.ProxyURL != "" {
		dst.ProxyURL = src.ProxyURL
	}
	if src.RewriteHostname != "" {
		dst.RewriteHostname = src.RewriteHostname
	}
	if src.RewriteProtocol != "" {
		dst.RewriteProtocol = src.RewriteProtocol
	}
	if src.RewriteHost != "" {
		dst.RewriteHost = src.RewriteHost
	}
	if src.RewritePort != "" {
		dst.RewritePort = src.RewritePort
	}
	if src.UploadURL != "" {
		dst.UploadURL = src.UploadURL
	}
	if src.BucketProtocol != "" {
		dst.BucketProtocol = src.BucketProtocol
	}
	if src.BucketDomain != "" {
		dst.BucketDomain = src.BucketDomain
	}
	if src.BucketPort != "" {
		dst.BucketPort = src.BucketPort
	}
	if src.BucketAPIKey != "" {
		dst.BucketAPIKey = src.BucketAPIKey
	}
	if src.DialTimeoutSec > 0 {
		dst.DialTimeoutSec = src.DialTimeoutSec
	}
	if src.TLSHandshakeTimeoutSec > 0 {
		dst.TLSHandshakeTimeoutSec = src.TLSHandshakeTimeoutSec
	}
	if src.ResponseHeaderTimeoutSec > 0 {
		dst.ResponseHeaderTimeoutSec = src.ResponseHeaderTimeoutSec
	}
}
