package server

import (
	"github.com/gin-gonic/gin"

	"openai2gemini-go/internal/config"
	oh "openai2gemini-go/internal/handlers/openai"
	mw "openai2gemini-go/internal/middleware"
)

// RegisterOpenAIRoutes mounts the OpenAI-compatible endpoints under the given
// router group.
func RegisterOpenAIRoutes(root *gin.RouterGroup, cfg *config.Config) *oh.Handler {
	oa := oh.New(cfg)

	v1 := root.Group("/v1")
	v1.Use(mw.APIKeyAuth(cfg.APIKeys))

	v1.GET("/models", oa.ListModels)
	v1.GET("/models/:model", oa.GetModel)
	v1.POST("/chat/completions", oa.ChatCompletions)

	return oa
}
