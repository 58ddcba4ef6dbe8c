package routes

import (
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/dto"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/handlers"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// AnalyticsRoutes handles the setup of analytics-related routes
type AnalyticsRoutes struct {
	handler   *handlers.AnalyticsHandler
	jwtSecret string
}

// NewAnalyticsRoutes creates a new AnalyticsRoutes instance
func NewAnalyticsRoutes(handler *handlers.AnalyticsHandler, jwtSecret string) *AnalyticsRoutes {
	return &AnalyticsRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all analytics-related routes
func (r *AnalyticsRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	// Public ingestion endpoint hit by the browser collector.
	router.POST("/api/analytics/collect", r.handler.Collect)

	// Dashboard aggregations, admin only. The summary is the expensive one
	// and gets the short-TTL response cache.
	admin := router.Group("/api/admin/analytics")
	admin.Use(middleware.NewAuthMiddleware(r.jwtSecret), middleware.RequireRole("ADMIN"))

	validation := middleware.NewValidationMiddleware()
	admin.GET("/summary", cache.CacheResponse(),
		validation.ValidateQuery(dto.SummaryQueryRequest{}), r.handler.Summary)
	admin.GET("/live", r.handler.Live)
}
