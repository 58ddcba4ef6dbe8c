package routes

import (
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/handlers"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// LeadRoutes handles the setup of lead-related routes
type LeadRoutes struct {
	handler   *handlers.LeadHandler
	jwtSecret string
}

// NewLeadRoutes creates a new LeadRoutes instance
func NewLeadRoutes(handler *handlers.LeadHandler, jwtSecret string) *LeadRoutes {
	return &LeadRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all lead-related routes
func (r *LeadRoutes) RegisterRoutes(router *gin.Engine) {
	// Public submission endpoint from the cost calculator
	router.POST("/api/leads", r.handler.SubmitLead)

	// Admin lead tracking view
	admin := router.Group("/api/admin/leads")
	admin.Use(middleware.NewAuthMiddleware(r.jwtSecret), middleware.RequireRole("ADMIN"))

	admin.GET("", r.handler.ListLeads)
}
