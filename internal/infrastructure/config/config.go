package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Log       LogConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Latency   LatencyConfig
	Payment   PaymentConfig
	Orders    OrdersConfig
	Catalog   CatalogConfig
	Analytics AnalyticsConfig
	Session   SessionConfig
	Metrics   MetricsConfig
	Telemetry TelemetryConfig
	Export    ExportConfig
	Swagger   SwaggerConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
	GzipEnabled      bool
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StorageConfig selects the repository backend
type StorageConfig struct {
	Driver       string
	DSN          string
	Seed         bool
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// LatencyConfig holds the simulated per-operation delays
type LatencyConfig struct {
	Enabled           bool
	GetProducts       time.Duration
	GetProduct        time.Duration
	GetFilterOptions  time.Duration
	CreateOrder       time.Duration
	ProcessPayment    time.Duration
	GetOrders         time.Duration
	GetOrder          time.Duration
	UpdateOrderStatus time.Duration
	ExportOrders      time.Duration
	RecentPurchases   time.Duration
	MutateProduct     time.Duration
	GetAnalytics      time.Duration
}

// PaymentConfig holds the simulated gateway settings
type PaymentConfig struct {
	SuccessRate float64
	Seed        int64 // 0 = random
}

// OrdersConfig holds order lifecycle settings
type OrdersConfig struct {
	StrictTransitions bool
	IdempotencyTTL    time.Duration
}

// CatalogConfig holds catalog listing settings
type CatalogConfig struct {
	DefaultLimit int
	SlicePages   bool
}

// AnalyticsConfig holds dashboard aggregation settings
type AnalyticsConfig struct {
	CacheTTL   time.Duration
	RecentDays int
	TopN       int
}

// SessionConfig holds storefront session settings
type SessionConfig struct {
	PollInterval  time.Duration
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	Heartbeat     time.Duration
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
}

// ExportConfig holds the CSV export archive settings
type ExportConfig struct {
	ArchiveEnabled  bool
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	Prefix          string
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled    bool
	AllowedIPs []string // IPs or CIDRs, empty allows all
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with HELLCAT_ prefix (e.g., HELLCAT_STORAGE_DRIVER)
// 2. .env file in the working directory
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("HELLCAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			RateLimitEnabled: v.GetBool("http.rate_limit_enabled"),
			RateLimitRPS:     v.GetFloat64("http.rate_limit_rps"),
			RateLimitBurst:   v.GetInt("http.rate_limit_burst"),
			GzipEnabled:      v.GetBool("http.gzip_enabled"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(v.GetString("storage.driver")),
			DSN:          v.GetString("storage.dsn"),
			Seed:         v.GetBool("storage.seed"),
			MaxOpenConns: v.GetInt("storage.max_open_conns"),
			MaxIdleConns: v.GetInt("storage.max_idle_conns"),
			AutoMigrate:  v.GetBool("storage.auto_migrate"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Latency: LatencyConfig{
			Enabled:           v.GetBool("latency.enabled"),
			GetProducts:       v.GetDuration("latency.get_products"),
			GetProduct:        v.GetDuration("latency.get_product"),
			GetFilterOptions:  v.GetDuration("latency.get_filter_options"),
			CreateOrder:       v.GetDuration("latency.create_order"),
			ProcessPayment:    v.GetDuration("latency.process_payment"),
			GetOrders:         v.GetDuration("latency.get_orders"),
			GetOrder:          v.GetDuration("latency.get_order"),
			UpdateOrderStatus: v.GetDuration("latency.update_order_status"),
			ExportOrders:      v.GetDuration("latency.export_orders"),
			RecentPurchases:   v.GetDuration("latency.recent_purchases"),
			MutateProduct:     v.GetDuration("latency.mutate_product"),
			GetAnalytics:      v.GetDuration("latency.get_analytics"),
		},
		Payment: PaymentConfig{
			SuccessRate: v.GetFloat64("payment.success_rate"),
			Seed:        v.GetInt64("payment.seed"),
		},
		Orders: OrdersConfig{
			StrictTransitions: v.GetBool("orders.strict_transitions"),
			IdempotencyTTL:    v.GetDuration("orders.idempotency_ttl"),
		},
		Catalog: CatalogConfig{
			DefaultLimit: v.GetInt("catalog.default_limit"),
			SlicePages:   v.GetBool("catalog.slice_pages"),
		},
		Analytics: AnalyticsConfig{
			CacheTTL:   v.GetDuration("analytics.cache_ttl"),
			RecentDays: v.GetInt("analytics.recent_days"),
			TopN:       v.GetInt("analytics.top_n"),
		},
		Session: SessionConfig{
			PollInterval:  v.GetDuration("session.poll_interval"),
			IdleTimeout:   v.GetDuration("session.idle_timeout"),
			SweepInterval: v.GetDuration("session.sweep_interval"),
			Heartbeat:     v.GetDuration("session.heartbeat"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
		},
		Export: ExportConfig{
			ArchiveEnabled:  v.GetBool("export.archive_enabled"),
			Bucket:          v.GetString("export.bucket"),
			Endpoint:        v.GetString("export.endpoint"),
			Region:          v.GetString("export.region"),
			AccessKeyID:     v.GetString("export.access_key_id"),
			SecretAccessKey: v.GetString("export.secret_access_key"),
			UsePathStyle:    v.GetBool("export.use_path_style"),
			Prefix:          v.GetString("export.prefix"),
		},
		Swagger: SwaggerConfig{
			Enabled:    v.GetBool("swagger.enabled"),
			AllowedIPs: v.GetStringSlice("swagger.allowed_ips"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers defaults for keys where zero is a valid setting,
// so that an explicit zero in the file or environment is kept
func setDefaults(v *viper.Viper) {
	// Booleans that are on unless switched off
	v.SetDefault("latency.enabled", true)
	v.SetDefault("storage.seed", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("swagger.enabled", true)
	v.SetDefault("http.gzip_enabled", true)

	v.SetDefault("latency.get_products", 300*time.Millisecond)
	v.SetDefault("latency.get_product", 200*time.Millisecond)
	v.SetDefault("latency.get_filter_options", 100*time.Millisecond)
	v.SetDefault("latency.create_order", 500*time.Millisecond)
	v.SetDefault("latency.process_payment", time.Second)
	v.SetDefault("latency.get_orders", 300*time.Millisecond)
	v.SetDefault("latency.get_order", 200*time.Millisecond)
	v.SetDefault("latency.update_order_status", 300*time.Millisecond)
	v.SetDefault("latency.export_orders", 500*time.Millisecond)
	v.SetDefault("latency.recent_purchases", 200*time.Millisecond)
	v.SetDefault("latency.mutate_product", 500*time.Millisecond)
	v.SetDefault("latency.get_analytics", 300*time.Millisecond)

	v.SetDefault("payment.success_rate", 0.9)
	v.SetDefault("telemetry.sampling_ratio", 1.0)

	v.SetDefault("catalog.default_limit", 12)
	v.SetDefault("analytics.recent_days", 7)
	v.SetDefault("analytics.top_n", 5)
}

// applyDefaults sets default values for empty fields that have no
// meaningful zero
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "hellcat-store"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// Payment simulation alone takes a second; leave room for it
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.RateLimitRPS == 0 {
		cfg.HTTP.RateLimitRPS = 20
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 40
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID", "Idempotency-Key"}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverMemory
	}
	if cfg.Storage.DSN == "" && cfg.Storage.Driver == DriverSQLite {
		cfg.Storage.DSN = "file:hellcat.db?_foreign_keys=on"
	}
	if cfg.Storage.MaxOpenConns == 0 {
		cfg.Storage.MaxOpenConns = 10
	}
	if cfg.Storage.MaxIdleConns == 0 {
		cfg.Storage.MaxIdleConns = 2
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}

	if cfg.Orders.IdempotencyTTL == 0 {
		cfg.Orders.IdempotencyTTL = 24 * time.Hour
	}

	if cfg.Analytics.CacheTTL == 0 {
		cfg.Analytics.CacheTTL = 30 * time.Second
	}

	if cfg.Session.PollInterval == 0 {
		cfg.Session.PollInterval = 5 * time.Second
	}
	if cfg.Session.IdleTimeout == 0 {
		cfg.Session.IdleTimeout = 30 * time.Minute
	}
	if cfg.Session.SweepInterval == 0 {
		cfg.Session.SweepInterval = time.Minute
	}
	if cfg.Session.Heartbeat == 0 {
		cfg.Session.Heartbeat = 15 * time.Second
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}

	if cfg.Export.Region == "" {
		cfg.Export.Region = "us-east-1"
	}
	if cfg.Export.Prefix == "" {
		cfg.Export.Prefix = "exports/"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver must be one of memory, sqlite, postgres, got %q", c.Storage.Driver)
	}
	if c.Storage.MaxIdleConns > c.Storage.MaxOpenConns {
		return fmt.Errorf("storage.max_idle_conns (%d) cannot exceed storage.max_open_conns (%d)",
			c.Storage.MaxIdleConns, c.Storage.MaxOpenConns)
	}

	if c.Payment.SuccessRate < 0.0 || c.Payment.SuccessRate > 1.0 {
		return fmt.Errorf("payment.success_rate must be between 0.0 and 1.0, got %f", c.Payment.SuccessRate)
	}
	if c.Session.PollInterval <= 0 {
		return fmt.Errorf("session.poll_interval must be positive")
	}
	if c.Catalog.DefaultLimit <= 0 {
		return fmt.Errorf("catalog.default_limit must be positive, got %d", c.Catalog.DefaultLimit)
	}
	if c.Analytics.RecentDays <= 0 || c.Analytics.TopN <= 0 {
		return fmt.Errorf("analytics.recent_days and analytics.top_n must be positive")
	}
	if c.HTTP.RateLimitEnabled && c.HTTP.RateLimitRPS < 0 {
		return fmt.Errorf("http.rate_limit_rps cannot be negative")
	}

	if c.Export.ArchiveEnabled && c.Export.Bucket == "" {
		return fmt.Errorf("export.bucket is required when export.archive_enabled is true")
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// IsDevelopment reports whether the app runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
