package gemini

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"openai2gemini-go/internal/config"
	common "openai2gemini-go/internal/handlers/common"
	upgem "openai2gemini-go/internal/upstream/gemini"
)

// rawCaller is the upstream surface needed for passthrough endpoints.
type rawCaller interface {
	RawCall(ctx context.Context, method, path string, body []byte) ([]byte, int, error)
}

var _ rawCaller = (*upgem.Client)(nil)

// Handler proxies native Gemini cached-content management. Payloads pass
// through untouched apart from model name normalization.
type Handler struct {
	cfg    *config.Config
	client rawCaller
}

// New constructs the cached-content handler set.
func New(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg, client: upgem.New(cfg)}
}

func newWithClient(cfg *config.Config, client rawCaller) *Handler {
	return &Handler{cfg: cfg, client: client}
}

// CreateCachedContent proxies POST /v1beta/cachedContents.
func (h *Handler) CreateCachedContent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.AbortWithError(c, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}
	h.forward(c, http.MethodPost, "/v1beta/cachedContents", normalizeModelField(body))
}

// ListCachedContents proxies GET /v1beta/cachedContents.
func (h *Handler) ListCachedContents(c *gin.Context) {
	path := "/v1beta/cachedContents"
	if raw := c.Request.URL.RawQuery; raw != "" {
		path += "?" + raw
	}
	h.forward(c, http.MethodGet, path, nil)
}

// GetCachedContent proxies GET /v1beta/cachedContents/:name.
func (h *Handler) GetCachedContent(c *gin.Context) {
	h.forward(c, http.MethodGet, "/v1beta/cachedContents/"+c.Param("name"), nil)
}

// UpdateCachedContent proxies PATCH /v1beta/cachedContents/:name.
func (h *Handler) UpdateCachedContent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.AbortWithError(c, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}
	path := "/v1beta/cachedContents/" + c.Param("name")
	if raw := c.Request.URL.RawQuery; raw != "" {
		path += "?" + raw
	}
	h.forward(c, http.MethodPatch, path, body)
}

// DeleteCachedContent proxies DELETE /v1beta/cachedContents/:name.
func (h *Handler) DeleteCachedContent(c *gin.Context) {
	h.forward(c, http.MethodDelete, "/v1beta/cachedContents/"+c.Param("name"), nil)
}

func (h *Handler) forward(c *gin.Context, method, path string, body []byte) {
	respBody, status, err := h.client.RawCall(c.Request.Context(), method, path, body)
	if err != nil {
		common.AbortWithError(c, http.StatusBadGateway, "upstream_error", err.Error())
		return
	}
	if status >= 400 {
		common.AbortWithUpstreamError(c, status, "upstream_error", "", respBody)
		return
	}
	c.Data(status, "application/json", respBody)
}

// normalizeModelField prefixes a bare model id with "models/" so clients may
// pass either form.
func normalizeModelField(body []byte) []byte {
	model := gjson.GetBytes(body, "model").String()
	if model == "" || strings.HasPrefix(model, "models/") {
		return body
	}
	patched, err := sjson.SetBytes(body, "model", "models/"+model)
	if err != nil {
		return body
	}
	return patched
}
