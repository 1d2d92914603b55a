package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"openai2gemini-go/internal/config"
	mw "openai2gemini-go/internal/middleware"
)

// BuildEngine constructs the Gin engine serving both the OpenAI-compatible
// surface and the native passthrough endpoints.
func BuildEngine(cfg *config.Config) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	_ = engine.SetTrustedProxies([]string{})

	engine.Use(mw.Recovery(), mw.RequestID(), mw.CORS(), mw.RequestLogger())

	root := engine.Group(cfg.BasePath)
	root.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	RegisterOpenAIRoutes(root, cfg)
	RegisterGeminiRoutes(root, cfg)

	return engine
}
