package router

import (
	"fmt"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/hellcat/store/internal/infrastructure/logger"
	"github.com/hellcat/store/internal/infrastructure/metrics"
	"github.com/hellcat/store/internal/interfaces/http/middleware"
)

// EngineConfig configures the middleware stack and the unversioned endpoints
type EngineConfig struct {
	Logger         *zap.Logger
	Metrics        *metrics.Metrics // nil disables /metrics and request metrics
	MetricsPath    string
	Tracing        middleware.TracingConfig
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	MaxBodySize    int64
	RateLimiter    *middleware.RateLimiter // nil disables rate limiting
	Gzip           bool
	Swagger        middleware.SwaggerConfig
	TrustedProxies []string
}

// streams must not be compressed: gzip would hold back flushed events
var gzipExcluded = []string{`^/api/v\d+/sessions/[^/]+/stream$`}

// NewEngine builds the gin engine with the middleware stack, /health,
// /metrics, /swagger and the /api/v1 routes.
//
// Middleware order: request id, recovery, access log, tracing, span
// enrichment, metrics, security headers, CORS, body limit, rate limit, gzip.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			return nil, fmt.Errorf("trusted proxies: %w", err)
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(middleware.SpanEnricher())
	if cfg.Metrics != nil {
		engine.Use(middleware.HTTPMetrics(cfg.Metrics))
	}
	engine.Use(middleware.SecureWithConfig(cfg.Security))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
	}
	if cfg.Gzip {
		engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs(gzipExcluded)))
	}

	engine.GET("/health", h.System.Health)
	if cfg.Metrics != nil {
		engine.GET(cfg.MetricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))

	NewRouter(engine, WithAPIVersion("v1")).
		Register(StoreRoutes(h)...).
		Setup()

	return engine, nil
}
