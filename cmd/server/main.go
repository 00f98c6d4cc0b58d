package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/hellcat/store/docs"
	"github.com/hellcat/store/internal/application/analytics"
	catalogapp "github.com/hellcat/store/internal/application/catalog"
	orderapp "github.com/hellcat/store/internal/application/order"
	"github.com/hellcat/store/internal/application/session"
	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
	"github.com/hellcat/store/internal/infrastructure/cache"
	"github.com/hellcat/store/internal/infrastructure/config"
	"github.com/hellcat/store/internal/infrastructure/event"
	"github.com/hellcat/store/internal/infrastructure/latency"
	"github.com/hellcat/store/internal/infrastructure/logger"
	"github.com/hellcat/store/internal/infrastructure/metrics"
	"github.com/hellcat/store/internal/infrastructure/migration"
	"github.com/hellcat/store/internal/infrastructure/payment"
	"github.com/hellcat/store/internal/infrastructure/persistence"
	"github.com/hellcat/store/internal/infrastructure/persistence/seed"
	"github.com/hellcat/store/internal/infrastructure/scheduler"
	"github.com/hellcat/store/internal/infrastructure/storage"
	"github.com/hellcat/store/internal/infrastructure/telemetry"
	"github.com/hellcat/store/internal/interfaces/http/handler"
	"github.com/hellcat/store/internal/interfaces/http/middleware"
	"github.com/hellcat/store/internal/interfaces/http/router"
)

//	@title			Hellcat Store API
//	@version		1.0
//	@description	Storefront for pre-levelled BGMI game accounts: catalog browsing, checkout, simulated payment and store administration.

//	@contact.name	Hellcat Store Support
//	@contact.email	support@hellcat.example.com

//	@host		localhost:8080
//	@BasePath	/api/v1

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Hellcat Store",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("storage", cfg.Storage.Driver),
	)

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("Server exited")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		return fmt.Errorf("setup validator: %w", err)
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer shutdownWithTimeout(log, "tracer provider", tp.Shutdown)

	checks := make(map[string]handler.HealthCheck)

	products, orders, closeStorage, err := openStorage(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeStorage()

	backends, err := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).Create(ctx)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer func() {
		if err := backends.Close(); err != nil {
			log.Warn("Failed to close cache backends", zap.Error(err))
		}
	}()
	if cfg.Redis.Enabled {
		checks["redis"] = backends.Ping
	}

	var archiver storage.Archiver
	if cfg.Export.ArchiveEnabled {
		s3, err := storage.NewS3Archive(ctx, cfg.Export, storage.WithLogger(log))
		if err != nil {
			return fmt.Errorf("export archive: %w", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("export archive bucket: %w", err)
		}
		archiver = s3
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(metrics.DefaultNamespace)
	}

	bus := event.NewInMemoryEventBus(log)
	if err := bus.Start(ctx); err != nil {
		return fmt.Errorf("event bus: %w", err)
	}
	defer shutdownWithTimeout(log, "event bus", bus.Stop)

	waiter := latency.FromConfig(cfg.Latency)
	gateway := payment.NewSimulatedGateway(cfg.Payment.SuccessRate, uint64(cfg.Payment.Seed))

	catalogSvc := catalogapp.NewProductService(catalogapp.ProductServiceConfig{
		Repo:           products,
		Latency:        waiter,
		EventPublisher: bus,
		DefaultLimit:   cfg.Catalog.DefaultLimit,
		SlicePages:     cfg.Catalog.SlicePages,
		Logger:         log,
	})
	orderSvc := orderapp.NewOrderService(orderapp.ServiceConfig{
		Orders:         orders,
		Products:       products,
		Latency:        waiter,
		Outcomes:       gateway,
		Credentials:    gateway,
		Idempotency:    backends.Idempotency,
		IdempotencyTTL: cfg.Orders.IdempotencyTTL,
		Transitions:    order.NewTransitionPolicy(cfg.Orders.StrictTransitions),
		EventPublisher: bus,
		Archiver:       archiver,
		Metrics:        m,
		Logger:         log,
	})
	analyticsSvc := analytics.NewAnalyticsService(analytics.ServiceConfig{
		Orders:     orders,
		Latency:    waiter,
		Cache:      backends.Store,
		CacheTTL:   cfg.Analytics.CacheTTL,
		RecentDays: cfg.Analytics.RecentDays,
		TopN:       cfg.Analytics.TopN,
		Metrics:    m,
		Logger:     log,
	})

	bus.Subscribe(analyticsSvc)
	if m != nil {
		bus.Subscribe(m)
	}

	// keeps the dashboard snapshot populated between order events
	warmer := scheduler.NewPeriodicTask(scheduler.TaskConfig{
		Name:           "analytics-warm",
		Interval:       cfg.Analytics.CacheTTL,
		RunImmediately: true,
		Timeout:        cfg.Analytics.CacheTTL,
	}, func(ctx context.Context) error {
		_, err := analyticsSvc.GetAnalytics(ctx)
		return err
	}, log)
	if err := warmer.Start(ctx); err != nil {
		return fmt.Errorf("analytics warmer: %w", err)
	}
	defer shutdownWithTimeout(log, "analytics warmer", warmer.Stop)

	sessions := session.NewRegistry(session.RegistryConfig{
		Catalog:       catalogSvc,
		Orders:        orderSvc,
		Analytics:     analyticsSvc,
		PageSize:      cfg.Catalog.DefaultLimit,
		PollInterval:  cfg.Session.PollInterval,
		IdleTimeout:   cfg.Session.IdleTimeout,
		SweepInterval: cfg.Session.SweepInterval,
		Metrics:       m,
		Logger:        log,
	})
	if err := sessions.Start(ctx); err != nil {
		return fmt.Errorf("session registry: %w", err)
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:      log,
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		CORS:           cors,
		Security:       middleware.DefaultSecurityConfig(),
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		RateLimiter:    limiter,
		Gzip:           cfg.HTTP.GzipEnabled,
		Swagger:        middleware.SwaggerConfig{Enabled: cfg.Swagger.Enabled, AllowedIPs: cfg.Swagger.AllowedIPs},
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, router.Handlers{
		System:   handler.NewSystemHandler(version, checks),
		Catalog:  handler.NewCatalogHandler(catalogSvc),
		Orders:   handler.NewOrderHandler(orderSvc),
		Admin:    handler.NewAdminHandler(catalogSvc, orderSvc, analyticsSvc),
		Sessions: handler.NewSessionHandler(sessions, cfg.Session.Heartbeat, log),
	})
	if err != nil {
		return fmt.Errorf("http engine: %w", err)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		// closing sessions ends their event streams so Shutdown can drain
		if err := sessions.Shutdown(shutdownCtx); err != nil {
			log.Warn("Session registry shutdown incomplete", zap.Error(err))
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// openStorage builds the product and order repositories for the configured
// driver. Relational drivers register a "database" health check.
func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger, checks map[string]handler.HealthCheck) (catalog.ProductRepository, order.OrderRepository, func(), error) {
	var (
		seedProducts []catalog.Product
		seedOrders   []order.Order
	)
	if cfg.Storage.Seed {
		var err error
		if seedProducts, err = seed.Products(); err != nil {
			return nil, nil, nil, fmt.Errorf("seed products: %w", err)
		}
		if seedOrders, err = seed.Orders(seedProducts); err != nil {
			return nil, nil, nil, fmt.Errorf("seed orders: %w", err)
		}
	}

	if cfg.Storage.Driver == config.DriverMemory {
		log.Info("Using in-memory storage", zap.Int("products", len(seedProducts)), zap.Int("orders", len(seedOrders)))
		return persistence.NewMemoryProductRepository(seedProducts...),
			persistence.NewMemoryOrderRepository(seedOrders...),
			func() {}, nil
	}

	if cfg.Storage.Driver == config.DriverPostgres && !cfg.Storage.AutoMigrate {
		if err := applyMigrations(cfg.Storage.DSN, log); err != nil {
			return nil, nil, nil, err
		}
	}

	db, err := persistence.NewDatabase(cfg.Storage,
		persistence.WithLogger(log, cfg.Log.Level),
		persistence.WithTracing(cfg.Telemetry.DBTraceEnabled),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}

	if cfg.Storage.Seed {
		if err := db.Seed(ctx, seedProducts, seedOrders); err != nil {
			closeDB()
			return nil, nil, nil, err
		}
	}
	checks["database"] = db.Ping

	log.Info("Using relational storage", zap.String("driver", db.Driver()))
	return persistence.NewGormProductRepository(db.DB),
		persistence.NewGormOrderRepository(db.DB),
		closeDB, nil
}

// applyMigrations brings the postgres schema up to date with the
// migrations embedded in the binary. dsn must be in URL form.
func applyMigrations(dsn string, log *zap.Logger) error {
	m, err := migration.NewFromURL(dsn, log)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	if err := m.Up(); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func shutdownWithTimeout(log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("Shutdown failed", zap.String("component", name), zap.Error(err))
	}
}
