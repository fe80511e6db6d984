// internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/easyretail/shop-backend/internal/inventory"
	"github.com/easyretail/shop-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// ProductFilter narrows product lists. A zero Limit returns every match.
type ProductFilter struct {
	Search   string
	Category string
	Status   inventory.Status
	Active   *bool
	Offset   int
	Limit    int
}

// MutateFunc edits a product in place. Returning an error aborts the write.
type MutateFunc func(p *models.Product) error

type ProductRepository interface {
	List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	// CreateMany inserts all products or none.
	CreateMany(ctx context.Context, products []models.Product) error
	// Mutate loads a product, applies fn and writes the result while holding
	// a lock on that product only.
	Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type CustomerRepository interface {
	List(ctx context.Context) ([]models.Customer, error)
	Search(ctx context.Context, query string) ([]models.Customer, error)
	FindByID(ctx context.Context, id string) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	Create(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, c *models.Customer) error
	Delete(ctx context.Context, id string) error
}

type SupplierRepository interface {
	List(ctx context.Context) ([]models.Supplier, error)
	Search(ctx context.Context, query string) ([]models.Supplier, error)
	FindByID(ctx context.Context, id string) (*models.Supplier, error)
	FindByEmail(ctx context.Context, email string) (*models.Supplier, error)
	Create(ctx context.Context, s *models.Supplier) error
	Update(ctx context.Context, s *models.Supplier) error
	Delete(ctx context.Context, id string) error
}

type OrderFilter struct {
	Status models.OrderStatus
}

type OrderRepository interface {
	List(ctx context.Context, f OrderFilter) ([]models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, o *models.Order) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	Delete(ctx context.Context, id string) error
}

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Products  ProductRepository
	Customers CustomerRepository
	Suppliers SupplierRepository
	Orders    OrderRepository
}
