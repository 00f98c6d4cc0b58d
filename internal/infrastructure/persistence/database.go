package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
	"github.com/hellcat/store/internal/infrastructure/config"
	"github.com/hellcat/store/internal/infrastructure/logger"
	"github.com/hellcat/store/internal/infrastructure/persistence/models"
)

// Database holds the gorm connection for the relational storage drivers
type Database struct {
	DB     *gorm.DB
	driver string
}

// DatabaseOption configures NewDatabase
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	logger        *zap.Logger
	logLevel      string
	tracing       bool
	slowThreshold time.Duration
}

// WithLogger routes SQL logs through zap at the given application level
func WithLogger(l *zap.Logger, level string) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = l
		o.logLevel = level
	}
}

// WithTracing registers the otelgorm plugin
func WithTracing(enabled bool) DatabaseOption {
	return func(o *databaseOptions) {
		o.tracing = enabled
	}
}

// NewDatabase opens the sqlite or postgres database named by cfg
func NewDatabase(cfg config.StorageConfig, opts ...DatabaseOption) (*Database, error) {
	o := &databaseOptions{logger: zap.NewNop(), slowThreshold: 200 * time.Millisecond}
	for _, opt := range opts {
		opt(o)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("driver %q has no database", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(o.logger, logger.GormLevel(o.logLevel), o.slowThreshold),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if o.tracing {
		dbName := "postgresql"
		if cfg.Driver == config.DriverSQLite {
			dbName = "sqlite"
		}
		if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName(dbName), otelgorm.WithoutQueryVariables())); err != nil {
			return nil, fmt.Errorf("failed to register tracing plugin: %w", err)
		}
	}

	d := &Database{DB: db, driver: cfg.Driver}
	if cfg.AutoMigrate || cfg.Driver == config.DriverSQLite {
		if err := d.AutoMigrate(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// AutoMigrate creates or updates the products and orders tables
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Driver returns the storage driver name
func (d *Database) Driver() string {
	return d.driver
}

// Seed loads products and orders into empty tables. Products keep their
// listing order through ascending positions.
func (d *Database) Seed(ctx context.Context, products []catalog.Product, orders []order.Order) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ProductModel{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		if count == 0 && len(products) > 0 {
			rows := make([]*models.ProductModel, 0, len(products))
			for i := range products {
				rows = append(rows, models.ProductModelFromDomain(&products[i], int64(i+1)))
			}
			if err := tx.Create(rows).Error; err != nil {
				return fmt.Errorf("seed products: %w", err)
			}
		}

		if err := tx.Model(&models.OrderModel{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count orders: %w", err)
		}
		if count == 0 && len(orders) > 0 {
			rows := make([]*models.OrderModel, 0, len(orders))
			for i := range orders {
				rows = append(rows, models.OrderModelFromDomain(&orders[i]))
			}
			if err := tx.Create(rows).Error; err != nil {
				return fmt.Errorf("seed orders: %w", err)
			}
		}
		return nil
	})
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
