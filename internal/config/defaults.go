package config

// DefaultValues centralizes default configuration values so that code and
// config.example.yaml stay in sync.
type DefaultValues struct {
	Port           string
	BasePath       string
	GeminiEndpoint string
	BucketProtocol string
	BucketPort     string
}

// GetDefaults returns the built-in defaults.
func GetDefaults() DefaultValues {
	return DefaultValues{
		Port:           "7860",
		BasePath:       "",
		GeminiEndpoint: "https://generativelanguage.googleapis.com",
		BucketProtocol: "https",
		BucketPort:     "443",
	}
}
