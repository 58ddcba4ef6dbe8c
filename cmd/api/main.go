package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/handlers"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/middleware"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/routes"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/analytics"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/blog"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/geoip"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/lead"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/user"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/infrastructure/cache"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/infrastructure/persistence/postgres/connection"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/infrastructure/persistence/postgres/migrations"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/infrastructure/scheduler"
	"github.com/faysalmohammed2020/buzzmoving-texas/pkg/config"
	"github.com/faysalmohammed2020/buzzmoving-texas/pkg/logger"
	"github.com/faysalmohammed2020/buzzmoving-texas/pkg/security/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.NewLoggerWithLevel(cfg.Logging.Level)
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Type",
			"Authorization",
			"X-Forwarded-For",
			"X-Real-IP",
		),
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Encoding",
			"Content-Type",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Prometheus metrics endpoint plus per-route request metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	metricsMiddleware := middleware.NewMetricsMiddleware()
	router.Use(metricsMiddleware.CollectMetrics())

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := migrations.AutoMigrate(db, log.Logger); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Structured JSON logger for the intake services
	intakeLogger := logrus.New()
	intakeLogger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Server.Mode == "production" {
		intakeLogger.SetLevel(logrus.InfoLevel)
	} else {
		intakeLogger.SetLevel(logrus.DebugLevel)
	}

	// Initialize Redis
	redisConfig := cache.NewConfigFromEnv(cfg)
	redisClient, err := cache.NewRedisClient(redisConfig)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Rate limiter shared by the login route
	rateLimiter := auth.NewRedisRateLimiter(redisClient.GetClient(), 1*time.Minute, 20)

	// Response cache for public reads and the summary endpoint
	cacheMiddleware := middleware.NewCacheMiddleware(redisClient, "web", cfg.Analytics.SummaryCacheTTL)

	// Initialize repositories
	analyticsRepo := analytics.NewRepository(db)
	geoRepo := geoip.NewRepository(db)
	blogRepo := blog.NewRepository(db)
	leadRepo := lead.NewRepository(db)
	userRepo := user.NewRepository(db)

	// Initialize services
	geoClient := geoip.NewClient(cfg.Geo.BaseURL, cfg.Geo.Timeout)
	geoService := geoip.NewService(geoRepo, geoClient, log.Logger)

	liveWindow := time.Duration(cfg.Analytics.LiveWindowSec) * time.Second
	analyticsService := analytics.NewService(analyticsRepo, geoService, liveWindow, log.Logger)

	blogService := blog.NewService(blogRepo)

	var forwarder lead.Forwarder
	if cfg.Leads.PartnerURL != "" {
		forwarder = lead.NewHTTPForwarder(cfg.Leads.PartnerURL, cfg.Leads.Timeout)
	} else {
		log.Warn("No lead partner URL configured, leads will only be stored locally")
	}
	leadService := lead.NewService(lead.ServiceConfig{
		Repository: leadRepo,
		Forwarder:  forwarder,
		Logger:     intakeLogger,
	})

	userService := user.NewService(user.ServiceConfig{
		Repository:     userRepo,
		Logger:         intakeLogger,
		JWTSecret:      cfg.Auth.JWTSecret,
		JWTIssuer:      cfg.Auth.JWTIssuer,
		JWTExpiryHours: cfg.Auth.JWTExpiryHours,
	})

	// Start the retention sweep
	retentionScheduler := scheduler.NewScheduler(analyticsService, cfg.Analytics.RetentionDays, log)
	retentionScheduler.Start()

	// Initialize handlers
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	blogHandler := handlers.NewBlogHandler(blogService)
	leadHandler := handlers.NewLeadHandler(leadService)
	authHandler := handlers.NewAuthHandler(userService)

	// Register routes
	routes.SetupHealthRoutes(router, db, redisClient)

	analyticsRoutes := routes.NewAnalyticsRoutes(analyticsHandler, cfg.Auth.JWTSecret)
	analyticsRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered analytics routes at /api/analytics and /api/admin/analytics")

	blogRoutes := routes.NewBlogRoutes(blogHandler, cfg.Auth.JWTSecret)
	blogRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered blog routes at /api/blogfetch and /api/blogpost")

	leadRoutes := routes.NewLeadRoutes(leadHandler, cfg.Auth.JWTSecret)
	leadRoutes.RegisterRoutes(router)
	log.Info("Registered lead routes at /api/leads and /api/admin/leads")

	authRoutes := routes.NewAuthRoutes(authHandler, cfg.Auth.JWTSecret, rateLimiter)
	authRoutes.RegisterRoutes(router)
	log.Info("Registered auth routes at /api/auth")

	// Browser collector served as a static asset
	router.StaticFile("/collector.js", "./web/collector.js")

	// Start server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
