package openai

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	common "openai2gemini-go/internal/handlers/common"
)

// defaultModelIDs is the catalog served when the upstream listing is
// unavailable.
var defaultModelIDs = []string{
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
}

// ListModels handles GET /v1/models. The catalog is proxied from the
// upstream model listing and re-shaped into the OpenAI list envelope; a
// static fallback keeps the endpoint serving when the upstream is down.
func (h *Handler) ListModels(c *gin.Context) {
	ids := h.upstreamModelIDs(c)

	items := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		items = append(items, modelObject(id))
	}
	c.JSON(http.StatusOK, gin.H{"object": "list", "data": items})
}

// GetModel handles GET /v1/models/:model.
func (h *Handler) GetModel(c *gin.Context) {
	requested := c.Param("model")
	for _, id := range h.upstreamModelIDs(c) {
		if id == requested {
			c.JSON(http.StatusOK, modelObject(id))
			return
		}
	}
	common.AbortWithError(c, http.StatusNotFound, "not_found", "model not found: "+requested)
}

func (h *Handler) upstreamModelIDs(c *gin.Context) []string {
	body, status, err := h.client.RawCall(c.Request.Context(), http.MethodGet, "/v1beta/models?pageSize=1000", nil)
	if err != nil || status < 200 || status > 299 {
		log.WithError(err).WithField("status", status).Warn("upstream model listing unavailable; serving defaults")
		return defaultModelIDs
	}

	var ids []string
	gjson.GetBytes(body, "models.#.name").ForEach(func(_, name gjson.Result) bool {
		ids = append(ids, strings.TrimPrefix(name.String(), "models/"))
		return true
	})
	if len(ids) == 0 {
		return defaultModelIDs
	}
	return ids
}

func modelObject(id string) gin.H {
	return gin.H{
		"id":       id,
		"object":   "model",
		"created":  time.Now().Unix(),
		"owned_by": "google",
	}
}
