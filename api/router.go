package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/mimic/api/handler"
	"github.com/use-agent/mimic/api/middleware"
	"github.com/use-agent/mimic/config"
	"github.com/use-agent/mimic/content"
	"github.com/use-agent/mimic/llm"
	"github.com/use-agent/mimic/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(sc *scraper.Scraper, llmClient *llm.Client, sum *content.Summarizer, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(sc, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Clone (scrape + generate)
	protected.POST("/clone", handler.Clone(sc, llmClient, sum, cfg.Compressor))

	// Scrape (analysis artifacts only, no generation)
	protected.POST("/scrape", handler.Scrape(sc))

	// Compress (pure context reduction)
	protected.POST("/compress", handler.Compress())

	return r
}
