package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw gin.HandlerFunc, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	r.POST("/v1/chat/completions", handler)
	r.GET("/v1/models", handler)
	return r
}

func ok(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }

func TestRequestIDGenerated(t *testing.T) {
	r := newEngine(RequestID(), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/models", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDPropagated(t *testing.T) {
	r := newEngine(RequestID(), ok)

	req := httptest.NewRequest("GET", "/v1/models", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestAPIKeyAuth(t *testing.T) {
	r := newEngine(APIKeyAuth([]string{"sk-good"}), ok)

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer sk-good") }, http.StatusOK},
		{"goog header", func(req *http.Request) { req.Header.Set("x-goog-api-key", "sk-good") }, http.StatusOK},
		{"x-api-key header", func(req *http.Request) { req.Header.Set("x-api-key", "sk-good") }, http.StatusOK},
		{"wrong key", func(req *http.Request) { req.Header.Set("Authorization", "Bearer sk-bad") }, http.StatusUnauthorized},
		{"missing key", func(*http.Request) {}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/models", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAPIKeyAuthQueryParameter(t *testing.T) {
	r := newEngine(APIKeyAuth([]string{"sk-good"}), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/models?key=sk-good", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuthDisabledWithoutKeys(t *testing.T) {
	r := newEngine(APIKeyAuth(nil), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/models", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	r := newEngine(Recovery(), func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/models", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "panic_recovered")
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.POST("/v1/chat/completions", ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/v1/chat/completions", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
