package routes

import (
	"net/http"
	"time"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/infrastructure/cache"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/infrastructure/persistence/postgres/connection"
	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// SetupHealthRoutes registers health check endpoints
func SetupHealthRoutes(router *gin.Engine, db *connection.Database, redisClient *cache.RedisClient) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	})

	// Readiness requires the database; redis degradation only loses caching
	// and rate limiting, so it does not flip readiness.
	router.GET("/health/ready", func(c *gin.Context) {
		sqlDB, err := db.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{
				Status:    "database unavailable",
				Timestamp: time.Now().UTC(),
			})
			return
		}
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "ready",
			Timestamp: time.Now().UTC(),
		})
	})

	router.GET("/health/cache", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := redisClient.HealthCheck(c.Request.Context()); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"metrics":   redisClient.GetMetrics(),
			"timestamp": time.Now().UTC(),
		})
	})
}
