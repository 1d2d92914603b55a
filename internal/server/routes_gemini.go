package server

import (
	"github.com/gin-gonic/gin"

	"openai2gemini-go/internal/config"
	gh "openai2gemini-go/internal/handlers/gemini"
	mw "openai2gemini-go/internal/middleware"
)

// RegisterGeminiRoutes mounts the native cached-content passthrough
// endpoints under the given router group.
func RegisterGeminiRoutes(root *gin.RouterGroup, cfg *config.Config) *gh.Handler {
	handler := gh.New(cfg)

	v1beta := root.Group("/v1beta")
	v1beta.Use(mw.APIKeyAuth(cfg.APIKeys))

	v1beta.POST("/cachedContents", handler.CreateCachedContent)
	v1beta.GET("/cachedContents", handler.ListCachedContents)
	v1beta.GET("/cachedContents/:name", handler.GetCachedContent)
	v1beta.PATCH("/cachedContents/:name", handler.UpdateCachedContent)
	v1beta.DELETE("/cachedContents/:name", handler.DeleteCachedContent)

	return handler
}
