package routes

import (
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/handlers"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/middleware"
	"github.com/faysalmohammed2020/buzzmoving-texas/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

// AuthRoutes handles the setup of authentication routes
type AuthRoutes struct {
	handler   *handlers.AuthHandler
	jwtSecret string
	limiter   auth.RateLimiter
}

// NewAuthRoutes creates a new AuthRoutes instance
func NewAuthRoutes(handler *handlers.AuthHandler, jwtSecret string, limiter auth.RateLimiter) *AuthRoutes {
	return &AuthRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
		limiter:   limiter,
	}
}

// RegisterRoutes registers all authentication routes
func (r *AuthRoutes) RegisterRoutes(router *gin.Engine) {
	authGroup := router.Group("/api/auth")

	// Login is rate limited per client IP to slow credential stuffing
	authGroup.POST("/login", middleware.RateLimitMiddleware(r.limiter), r.handler.Login)

	// Account creation is restricted to existing admins
	authGroup.POST("/register",
		middleware.NewAuthMiddleware(r.jwtSecret),
		middleware.RequireRole("ADMIN"),
		r.handler.Register)
}
