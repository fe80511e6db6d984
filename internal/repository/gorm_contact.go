// internal/repository/gorm_contact.go
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/easyretail/shop-backend/internal/models"
)

type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}
	return customers, nil
}

func (r *GormCustomerRepository) Search(ctx context.Context, query string) ([]models.Customer, error) {
	term := "%" + query + "%"
	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR email ILIKE ? OR phone LIKE ?", term, term, term).
		Order("created_at DESC").
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	return customers, nil
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "email = ?", email).Error; err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

func (r *GormCustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return translateError(r.db.WithContext(ctx).Create(c).Error)
}

func (r *GormCustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	return translateError(r.db.WithContext(ctx).Save(c).Error)
}

func (r *GormCustomerRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(r.db.WithContext(ctx), &models.Customer{}, id)
}

type GormSupplierRepository struct {
	db *gorm.DB
}

func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

func (r *GormSupplierRepository) List(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch suppliers: %w", err)
	}
	return suppliers, nil
}

func (r *GormSupplierRepository) Search(ctx context.Context, query string) ([]models.Supplier, error) {
	term := "%" + query + "%"
	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR email ILIKE ? OR company ILIKE ? OR phone LIKE ?", term, term, term, term).
		Order("created_at DESC").
		Find(&suppliers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search suppliers: %w", err)
	}
	return suppliers, nil
}

func (r *GormSupplierRepository) FindByID(ctx context.Context, id string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &supplier, nil
}

func (r *GormSupplierRepository) FindByEmail(ctx context.Context, email string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "email = ?", email).Error; err != nil {
		return nil, translateError(err)
	}
	return &supplier, nil
}

func (r *GormSupplierRepository) Create(ctx context.Context, s *models.Supplier) error {
	return translateError(r.db.WithContext(ctx).Create(s).Error)
}

func (r *GormSupplierRepository) Update(ctx context.Context, s *models.Supplier) error {
	return translateError(r.db.WithContext(ctx).Save(s).Error)
}

func (r *GormSupplierRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(r.db.WithContext(ctx), &models.Supplier{}, id)
}

func deleteByID(db *gorm.DB, model interface{}, id string) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
