package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"user_directory/internal/logger"
	"user_directory/internal/metrics"
	"user_directory/internal/middleware"
	"user_directory/internal/ratelimit"
	"user_directory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries everything the HTTP layer is built from
type RouterConfig struct {
	AuthService    service.AuthService
	AccountService service.AccountService
	// Limiter throttles /auth endpoints; nil disables rate limiting.
	Limiter ratelimit.Limiter
	// Ping reports store health for /health.
	Ping     func(ctx context.Context) error
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	RequireAdminForMutations bool
}

// NewRouter builds the gin engine with middlewares and all routes registered
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(cfg.Logger),
		middleware.MetricsMiddleware(cfg.Metrics),
	)

	// Simple CORS middleware (allow all for development)
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(cfg.AuthService, cfg.Logger, cfg.Metrics)
	var adminRoleMW gin.HandlerFunc
	if cfg.RequireAdminForMutations {
		adminRoleMW = middleware.AdminMiddleware(cfg.Metrics)
	}
	var limitMW gin.HandlerFunc
	if cfg.Limiter != nil {
		limitMW = middleware.RateLimitMiddleware(cfg.Limiter, cfg.Logger, cfg.Metrics)
	}

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1")
	NewAuthHandler(cfg.AuthService, cfg.Logger, cfg.Metrics).RegisterAuthRoutes(apiGroup, limitMW)
	NewAccountHandler(cfg.AccountService, cfg.Logger, cfg.Metrics).RegisterUserRoutes(apiGroup, jwtAuthMW, adminRoleMW)

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := cfg.Ping(ctx); err != nil {
			cfg.Logger.Warn("health check failed", logger.Err(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	return router
}
