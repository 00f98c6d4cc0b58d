package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/infrastructure/persistence/models"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindAll returns every product in listing order
func (r *GormProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Order("position ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products := make([]catalog.Product, 0, len(rows))
	for i := range rows {
		products = append(products, *rows[i].ToDomain())
	}
	return products, nil
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var row models.ProductModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return row.ToDomain(), nil
}

// NextID returns max(id)+1, or 1 for an empty catalog
func (r *GormProductRepository) NextID(ctx context.Context) (int64, error) {
	var maxID int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
		return 0, fmt.Errorf("next product id: %w", err)
	}
	return maxID + 1, nil
}

// Create stores the product ahead of every existing one
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var minPos int64
		if err := tx.Model(&models.ProductModel{}).
			Select("COALESCE(MIN(position), 1)").Scan(&minPos).Error; err != nil {
			return fmt.Errorf("product position: %w", err)
		}
		var exists int64
		if err := tx.Model(&models.ProductModel{}).Where("id = ?", product.ID).Count(&exists).Error; err != nil {
			return fmt.Errorf("check product %d: %w", product.ID, err)
		}
		if exists > 0 {
			return errDuplicateProduct(product.ID)
		}
		if err := tx.Create(models.ProductModelFromDomain(product, minPos-1)).Error; err != nil {
			return fmt.Errorf("create product %d: %w", product.ID, err)
		}
		return nil
	})
}

// Save overwrites every column except position and created_at
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	row := models.ProductModelFromDomain(product, 0)
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Select("*").Omit("id", "position", "created_at").
		Updates(row)
	if result.Error != nil {
		return fmt.Errorf("save product %d: %w", product.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete product %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

// Count returns the number of products
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
