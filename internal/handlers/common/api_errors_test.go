package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	apperrors "openai2gemini-go/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T, method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	return c, w
}

func TestAbortWithErrorOpenAIFormat(t *testing.T) {
	c, w := testContext(t, "POST", "/v1/chat/completions")

	AbortWithError(c, http.StatusBadRequest, "invalid_request_error", "missing model parameter")

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Equal(t, "missing model parameter", gjson.Get(body, "error.message").String())
	assert.Equal(t, "invalid_request_error", gjson.Get(body, "error.type").String())
}

func TestAbortWithErrorGeminiFormat(t *testing.T) {
	c, w := testContext(t, "DELETE", "/v1beta/cachedContents/abc")

	AbortWithError(c, http.StatusNotFound, "not_found", "no such cached content")

	require.Equal(t, http.StatusNotFound, w.Code)
	body := w.Body.String()
	assert.Equal(t, int64(http.StatusNotFound), gjson.Get(body, "error.code").Int())
	assert.Equal(t, "NOT_FOUND", gjson.Get(body, "error.status").String())
}

func TestAbortWithUpstreamErrorEmbedsBody(t *testing.T) {
	c, w := testContext(t, "POST", "/v1/chat/completions")

	AbortWithUpstreamError(c, http.StatusTooManyRequests, "rate_limit_error", "quota exhausted",
		[]byte(`{"error":{"code":429}}`))

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	body := w.Body.String()
	assert.Equal(t, int64(429), gjson.Get(body, "error.details.upstream.error.code").Int())
}

func TestAbortWithErrorClampsStatus(t *testing.T) {
	c, w := testContext(t, "POST", "/v1/chat/completions")

	AbortWithError(c, 0, "", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "server_error", gjson.Get(w.Body.String(), "error.type").String())
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want apperrors.ErrorFormat
	}{
		{"/v1/chat/completions", apperrors.FormatOpenAI},
		{"/v1/models", apperrors.FormatOpenAI},
		{"/v1beta/cachedContents", apperrors.FormatGemini},
		{"/v1beta/models/gemini-2.5-pro:generateContent", apperrors.FormatGemini},
	}
	for _, tt := range tests {
		c, _ := testContext(t, "GET", tt.path)
		assert.Equal(t, tt.want, DetectFormat(c), tt.path)
	}
}
