package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "openai2gemini-go/internal/errors"
	common "openai2gemini-go/internal/handlers/common"
)

// APIKeyAuth validates the caller's key against the configured list. Keys
// are accepted from the Authorization bearer header, the x-goog-api-key and
// x-api-key headers, and the key query parameter. An empty list disables
// authentication.
func APIKeyAuth(keys []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			allowed[k] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}

		provided := extractAPIKey(c)
		if provided == "" {
			respondUnauthorized(c, "API key not provided")
			return
		}
		if _, ok := allowed[provided]; !ok {
			respondUnauthorized(c, "Invalid API key")
			return
		}

		c.Set("api_key", provided)
		c.Next()
	}
}

func extractAPIKey(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			return strings.TrimSpace(auth[7:])
		}
		return auth
	}
	if key := c.GetHeader("x-goog-api-key"); key != "" {
		return key
	}
	if key := c.GetHeader("x-api-key"); key != "" {
		return key
	}
	return c.Query("key")
}

func respondUnauthorized(c *gin.Context, message string) {
	common.AbortWithAPIError(c, apperrors.New(
		http.StatusUnauthorized,
		"invalid_api_key",
		"invalid_request_error",
		message,
	))
}
