// internal/repository/gorm_product.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/easyretail/shop-backend/internal/database"
	"github.com/easyretail/shop-backend/internal/models"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// NewGormRepositories wires every repository to the same connection.
func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Products:  NewGormProductRepository(db),
		Customers: NewGormCustomerRepository(db),
		Suppliers: NewGormSupplierRepository(db),
		Orders:    NewGormOrderRepository(db),
	}
}

func (r *GormProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(id) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(category) LIKE ?",
			term, term, term, term,
		)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Active != nil {
		query = query.Where("is_active = ?", *f.Active)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order("created_at DESC")
	if f.Limit > 0 {
		query = query.Offset(f.Offset).Limit(f.Limit)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

func (r *GormProductRepository) Create(ctx context.Context, p *models.Product) error {
	return translateError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *GormProductRepository) CreateMany(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		return translateError(tx.Create(&products).Error)
	})
}

func (r *GormProductRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Product, error) {
	var product models.Product
	err := database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error; err != nil {
			return translateError(err)
		}
		if err := fn(&product); err != nil {
			return err
		}
		return translateError(tx.Save(&product).Error)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete products: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// translateError maps gorm errors onto the repository sentinels. The
// connection must be opened with TranslateError so unique violations surface
// as gorm.ErrDuplicatedKey.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return fmt.Errorf("database error: %w", err)
	}
}
