package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hellcat/store/internal/domain/order"
	"github.com/hellcat/store/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindAll returns every order, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context) ([]order.Order, error) {
	return r.find(r.db.WithContext(ctx), 0)
}

// FindCompleted returns completed orders, newest first
func (r *GormOrderRepository) FindCompleted(ctx context.Context, limit int) ([]order.Order, error) {
	return r.find(r.db.WithContext(ctx).Where("status = ?", string(order.StatusCompleted)), limit)
}

func (r *GormOrderRepository) find(q *gorm.DB, limit int) ([]order.Order, error) {
	q = q.Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.OrderModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := make([]order.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders, nil
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	var row models.OrderModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}
	return row.ToDomain(), nil
}

// Exists reports whether an order id is taken
func (r *GormOrderRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check order %s: %w", id, err)
	}
	return count > 0, nil
}

// Create stores a new order
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	if err := r.db.WithContext(ctx).Create(models.OrderModelFromDomain(o)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errDuplicateOrder(o.ID)
		}
		return fmt.Errorf("create order %s: %w", o.ID, err)
	}
	return nil
}

// Save overwrites every column except created_at
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ?", o.ID).
		Select("*").Omit("id", "created_at").
		Updates(models.OrderModelFromDomain(o))
	if result.Error != nil {
		return fmt.Errorf("save order %s: %w", o.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

var _ order.OrderRepository = (*GormOrderRepository)(nil)
