package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dactasg/proposal-architect/internal/config"
	"github.com/dactasg/proposal-architect/internal/http/handlers"
	"github.com/dactasg/proposal-architect/internal/http/middleware"
)

func SetupRouter(
	cfg *config.Config,
	submissionHandler *handlers.SubmissionHandler,
	catalogHandler *handlers.CatalogHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	api.GET("/services", catalogHandler.ListOptions)
	api.GET("/stats", submissionHandler.Stats)

	// Каждая отправка тянет внешний вебхук, поэтому лимитируем только её.
	submitRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	api.POST("/submissions", submitRateLimit, submissionHandler.Submit)

	return r
}
