// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bestopensors/posterbadge/internal/config"
	"github.com/bestopensors/posterbadge/internal/handler"
	"github.com/bestopensors/posterbadge/internal/middleware"
	"github.com/bestopensors/posterbadge/internal/service"
	"github.com/bestopensors/posterbadge/internal/storage"
)

// Deps bundles everything the routes need. Handlers receive their
// dependencies explicitly — no DI container, no magic.
type Deps struct {
	PosterService *service.PosterService
	JobRepo       storage.BadgeJobRepository
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	badgeHandler := handler.NewBadgeHandler(deps.PosterService, logger)
	adminHandler := handler.NewAdminHandler(deps.JobRepo, logger)

	// Public endpoints (no auth)
	r.GET("/healthz", healthHandler.Healthz)

	// CORS middleware applies to the entire API group.
	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	api.GET("/version", healthHandler.Versionz)

	// Authenticated API endpoints
	authed := api.Group("")
	authed.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	authed.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		authed.POST("/preview", badgeHandler.Preview)
		authed.POST("/apply", badgeHandler.Apply)
	}

	// Admin endpoints (separate auth with admin keys)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
	}
}
