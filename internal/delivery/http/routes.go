package http

import (
	"github.com/gin-gonic/gin"
	"github.com/pricelens/web/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	production := cfg.Server.Environment == "production"
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	sessions := SessionMiddleware(cfg.Session.CookieName, cfg.Session.TTL, production)

	// Server-rendered pages
	pages := router.Group("/", sessions)
	{
		pages.GET("/", handler.Index)
		pages.POST("/search", handler.SubmitSearch)
		pages.POST("/history/clear", handler.ClearHistory)
	}

	// API v1 routes
	v1 := router.Group("/api/v1", sessions)
	{
		v1.POST("/search", handler.APISearch)
		v1.GET("/screen", handler.APIScreen)
	}

	return router
}
