package routes

import (
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/handlers"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// BlogRoutes handles the setup of blog-related routes
type BlogRoutes struct {
	handler   *handlers.BlogHandler
	jwtSecret string
}

// NewBlogRoutes creates a new BlogRoutes instance
func NewBlogRoutes(handler *handlers.BlogHandler, jwtSecret string) *BlogRoutes {
	return &BlogRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all blog-related routes
func (r *BlogRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	// Public read endpoints with caching
	router.GET("/api/blogfetch", cache.CacheResponse(), r.handler.ListPosts)
	router.GET("/api/blogpost/:id", cache.CacheResponse(), r.handler.GetPost)

	// Write operations are admin-only and invalidate the cached listings
	posts := router.Group("/api/blogpost")
	posts.Use(middleware.NewAuthMiddleware(r.jwtSecret), middleware.RequireRole("ADMIN"))

	posts.POST("", cache.CacheInvalidate("api/blogfetch*", "api/blogpost*"), r.handler.CreatePost)
	posts.PUT("", cache.CacheInvalidate("api/blogfetch*", "api/blogpost*"), r.handler.UpdatePost)
	posts.DELETE("", cache.CacheInvalidate("api/blogfetch*", "api/blogpost*"), r.handler.DeletePost)
}
