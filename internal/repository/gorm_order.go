// internal/repository/gorm_order.go
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/easyretail/shop-backend/internal/database"
	"github.com/easyretail/shop-backend/internal/models"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Preload("Items")
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

func (r *GormOrderRepository) Create(ctx context.Context, o *models.Order) error {
	return translateError(r.db.WithContext(ctx).Create(o).Error)
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *GormOrderRepository) Delete(ctx context.Context, id string) error {
	return database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		return deleteByID(tx, &models.Order{}, id)
	})
}
