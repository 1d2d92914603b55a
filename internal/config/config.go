package config

// Config holds all runtime settings. It is loaded once at startup and must be
// treated as read-only afterwards; components receive it at construction.
type Config struct {
	// Server settings
	Port     string `yaml:"port" json:"port"`
	BasePath string `yaml:"base_path" json:"base_path"`
	Debug    bool   `yaml:"debug" json:"debug"`
	LogFile  string `yaml:"log_file" json:"log_file"`

	// Inbound auth: accepted API keys. Empty list disables the check.
	APIKeys []string `yaml:"api_keys" json:"api_keys"`

	// Upstream (Gemini) settings
	GeminiEndpoint string `yaml:"gemini_endpoint" json:"gemini_endpoint"`
	GeminiAPIKey   string `yaml:"gemini_api_key" json:"gemini_api_key"`
	ProxyURL       string `yaml:"proxy_url" json:"proxy_url"`

	// Fetcher hostname rewrite ("local redirection"): when a media URL's
	// hostname equals RewriteHostname, scheme/host/port are replaced so a
	// locally running bucket can stand in for its public name.
	RewriteHostname string `yaml:"fetch_rewrite_hostname" json:"fetch_rewrite_hostname"`
	RewriteProtocol string `yaml:"fetch_rewrite_protocol" json:"fetch_rewrite_protocol"`
	RewriteHost     string `yaml:"fetch_rewrite_host" json:"fetch_rewrite_host"`
	RewritePort     string `yaml:"fetch_rewrite_port" json:"fetch_rewrite_port"`

	// Asset publisher (bucket) settings. UploadURL takes precedence over the
	// legacy protocol/domain/port triple.
	UploadURL      string `yaml:"upload_url" json:"upload_url"`
	BucketProtocol string `yaml:"bucket_protocol" json:"bucket_protocol"`
	BucketDomain   string `yaml:"bucket_domain" json:"bucket_domain"`
	BucketPort     string `yaml:"bucket_port" json:"bucket_port"`
	BucketAPIKey   string `yaml:"bucket_api_key" json:"bucket_api_key"`

	// Network timeouts (seconds; zero selects the constants defaults)
	DialTimeoutSec           int `yaml:"dial_timeout_sec" json:"dial_timeout_sec"`
	TLSHandshakeTimeoutSec   int `yaml:"tls_handshake_timeout_sec" json:"tls_handshake_timeout_sec"`
	ResponseHeaderTimeoutSec int `yaml:"response_header_timeout_sec" json:"response_header_timeout_sec"`
}

// RewriteConfigured reports whether the fetcher hostname rewrite is active.
func (c *Config) RewriteConfigured() bool {
	return c != nil && c.RewriteHostname != "" && c.RewriteHost != ""
}

// BucketConfigured reports whether any upload destination is known.
func (c *Config) BucketConfigured() bool {
	return c != nil && (c.UploadURL != "" || c.BucketDomain != "")
}
