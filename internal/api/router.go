package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brainydocs/brainydocs/internal/api/admin"
	"github.com/brainydocs/brainydocs/internal/api/auth"
	"github.com/brainydocs/brainydocs/internal/api/chat"
	"github.com/brainydocs/brainydocs/internal/api/middleware"
	"github.com/brainydocs/brainydocs/internal/config"
	"github.com/brainydocs/brainydocs/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AdminAPIKey  string
	AllowOrigins []string
	RateLimit    config.RateLimitConfig
}

// SetupRouter sets up the Gin router
func SetupRouter(
	authService *service.AuthService,
	chatService *service.ChatService,
	ingestService *service.IngestService,
	adminService *service.AdminService,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS and metrics cover every route
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.Metrics())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "BrainyDocs RAG backend is running."})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limit := middleware.RateLimit(cfg.RateLimit)

	// Auth endpoints (public, rate limited)
	authHandler := auth.NewHandler(authService)
	authGroup := r.Group("/")
	authGroup.Use(limit)
	authHandler.RegisterRoutes(authGroup)

	// Session and chat endpoints (bearer token required)
	chatHandler := chat.NewHandler(chatService)
	chatGroup := r.Group("/")
	chatGroup.Use(limit, middleware.JWTAuth(authService))
	chatHandler.RegisterRoutes(chatGroup)

	// Admin API (requires API key)
	adminHandler := admin.NewHandler(adminService, ingestService)
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.APIKeyAuth(cfg.AdminAPIKey))
	adminHandler.RegisterRoutes(adminGroup)

	return r
}
