// internal/services/product_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/easyretail/shop-backend/internal/coerce"
	"github.com/easyretail/shop-backend/internal/inventory"
	"github.com/easyretail/shop-backend/internal/models"
	"github.com/easyretail/shop-backend/internal/repository"
)

type ProductService struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// ProductInput is the loosely-typed product body shared by create, update,
// bulk update and import. Nil fields were not supplied. Status is never read.
type ProductInput struct {
	ID          *string        `json:"id,omitempty"`
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Price       *coerce.Number `json:"price,omitempty"`
	Stock       *coerce.Number `json:"stock,omitempty"`
	Quantity    *coerce.Number `json:"quantity,omitempty"`
	IsActive    *coerce.Bool   `json:"isActive,omitempty"`
	Sales       *coerce.Number `json:"sales,omitempty"`
	SKU         *string        `json:"sku,omitempty"`
	Image       *string        `json:"image,omitempty"`
	CreatedAt   *string        `json:"createdAt,omitempty"`
}

// stockValue prefers stock over the quantity alias.
func (in *ProductInput) stockValue() (int, bool) {
	switch {
	case in.Stock != nil:
		return coerceStock(in.Stock), true
	case in.Quantity != nil:
		return coerceStock(in.Quantity), true
	}
	return 0, false
}

func coerceStock(n *coerce.Number) int {
	return inventory.ClampStock(n.Int())
}

func coercePrice(n *coerce.Number) decimal.Decimal {
	return coerce.NonNegativeDecimal(n.Decimal()).Round(2)
}

func nonEmpty(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}

// SaleItem is one sold line. The product may be named by "id" or
// "productId"; "id" wins when both are present.
type SaleItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

func (i *SaleItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string `json:"id"`
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	i.ID = raw.ID
	if strings.TrimSpace(i.ID) == "" {
		i.ID = raw.ProductID
	}
	i.Quantity = raw.Quantity
	return nil
}

type ProductListParams struct {
	Search   string
	Category string
	Status   inventory.Status
	Active   *bool
	Page     int
	Limit    int
}

type CategoryStats struct {
	Name  string          `json:"name"`
	Count int             `json:"count"`
	Stock int             `json:"stock"`
	Value decimal.Decimal `json:"value"`
	Sales int             `json:"sales"`
}

type ProductStats struct {
	TotalProducts  int                      `json:"totalProducts"`
	ActiveProducts int                      `json:"activeProducts"`
	TotalStock     int                      `json:"totalStock"`
	TotalSales     int                      `json:"totalSales"`
	TotalValue     decimal.Decimal          `json:"totalValue"`
	AveragePrice   decimal.Decimal          `json:"averagePrice"`
	Categories     []CategoryStats          `json:"categories"`
	Status         map[inventory.Status]int `json:"status"`
}

func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo, now: time.Now}
}

func (s *ProductService) defaultSKU() string {
	return fmt.Sprintf("SKU-%d", s.now().UnixMilli())
}

// build applies the create rules to an input. Import keeps the supplied
// id, sku, sales, isActive and createdAt; plain create does not.
func (s *ProductService) build(in *ProductInput, imported bool) (*models.Product, error) {
	name, ok := nonEmpty(in.Name)
	if !ok {
		return nil, validationError("product name is required")
	}

	p := &models.Product{
		Name:     name,
		Category: models.DefaultCategory,
		Image:    models.DefaultImage,
		SKU:      s.defaultSKU(),
		IsActive: true,
	}
	p.ID = uuid.New().String()

	if in.Description != nil {
		p.Description = *in.Description
	}
	if v, ok := nonEmpty(in.Category); ok {
		p.Category = v
	}
	if v, ok := nonEmpty(in.Image); ok {
		p.Image = v
	}
	if in.Price != nil {
		p.Price = coercePrice(in.Price)
	}
	stock, _ := in.stockValue()
	p.SetStock(stock)

	if imported {
		if v, ok := nonEmpty(in.ID); ok {
			p.ID = v
		}
		if v, ok := nonEmpty(in.SKU); ok {
			p.SKU = v
		}
		if in.Sales != nil {
			p.Sales = inventory.ClampStock(in.Sales.Int())
		}
		p.IsActive = in.IsActive.Value(true)
		if in.CreatedAt != nil {
			if t, err := time.Parse(time.RFC3339, *in.CreatedAt); err == nil {
				p.CreatedAt = t
			}
		}
	} else if v, ok := nonEmpty(in.SKU); ok {
		p.SKU = v
	}
	return p, nil
}

// apply copies the supplied fields of a partial update onto p.
func apply(p *models.Product, in *ProductInput) error {
	if in.Name != nil {
		name, ok := nonEmpty(in.Name)
		if !ok {
			return validationError("product name cannot be empty")
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if v, ok := nonEmpty(in.Category); ok {
		p.Category = v
	}
	if in.Price != nil {
		p.Price = coercePrice(in.Price)
	}
	if stock, ok := in.stockValue(); ok {
		p.SetStock(stock)
	}
	if in.IsActive != nil {
		p.IsActive = in.IsActive.Value(p.IsActive)
	}
	if v, ok := nonEmpty(in.SKU); ok {
		p.SKU = v
	}
	if v, ok := nonEmpty(in.Image); ok {
		p.Image = v
	}
	return nil
}

func (s *ProductService) CreateProduct(ctx context.Context, in *ProductInput) (*models.Product, error) {
	product, err := s.build(in, false)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, repoError("product", err)
	}
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError("product", err)
	}
	return product, nil
}

// ListProducts returns the matching page and the total match count. A zero
// Limit returns every match.
func (s *ProductService) ListProducts(ctx context.Context, params ProductListParams) ([]models.Product, int64, error) {
	filter := repository.ProductFilter{
		Search:   strings.TrimSpace(params.Search),
		Category: params.Category,
		Status:   params.Status,
		Active:   params.Active,
	}
	if filter.Category == "all" {
		filter.Category = ""
	}
	if params.Limit > 0 {
		page := params.Page
		if page < 1 {
			page = 1
		}
		filter.Limit = params.Limit
		filter.Offset = (page - 1) * params.Limit
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, repoError("products", err)
	}
	return products, total, nil
}

func (s *ProductService) LowStock(ctx context.Context) ([]models.Product, error) {
	products, _, err := s.ListProducts(ctx, ProductListParams{Status: inventory.StatusLowStock})
	return products, err
}

func (s *ProductService) OutOfStock(ctx context.Context) ([]models.Product, error) {
	products, _, err := s.ListProducts(ctx, ProductListParams{Status: inventory.StatusOutOfStock})
	return products, err
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, in *ProductInput) (*models.Product, error) {
	product, err := s.repo.Mutate(ctx, id, func(p *models.Product) error {
		return apply(p, in)
	})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return nil, err
		}
		return nil, repoError("product", err)
	}
	return product, nil
}

func (s *ProductService) ToggleActive(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.Mutate(ctx, id, func(p *models.Product) error {
		p.IsActive = !p.IsActive
		return nil
	})
	if err != nil {
		return nil, repoError("product", err)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return repoError("product", s.repo.Delete(ctx, id))
}

func (s *ProductService) DeleteAllProducts(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, repoError("products", err)
	}
	return n, nil
}

// RecordSale decrements stock and grows sales for every sold item. Each
// product is updated atomically on its own; unknown products are skipped.
func (s *ProductService) RecordSale(ctx context.Context, items []SaleItem) ([]models.Product, error) {
	if len(items) == 0 {
		return nil, validationError("at least one sold item is required")
	}
	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			return nil, validationError("sold item is missing a product id")
		}
		if item.Quantity <= 0 {
			return nil, validationError("quantity for %s must be greater than zero", item.ID)
		}
	}

	updated := make([]models.Product, 0, len(items))
	for _, item := range items {
		qty := item.Quantity
		product, err := s.repo.Mutate(ctx, item.ID, func(p *models.Product) error {
			stock, sales := inventory.ApplySale(p.Stock, p.Sales, qty)
			p.SetStock(stock)
			p.Sales = sales
			return nil
		})
		if errors.Is(err, repository.ErrNotFound) {
			logrus.WithField("product_id", item.ID).Warn("sale recorded for unknown product, skipping")
			continue
		}
		if err != nil {
			return updated, repoError("product", err)
		}
		updated = append(updated, *product)
	}
	return updated, nil
}

// BulkUpdate applies each partial update by id. Unknown ids are skipped.
func (s *ProductService) BulkUpdate(ctx context.Context, updates []ProductInput) ([]models.Product, error) {
	for i := range updates {
		if _, ok := nonEmpty(updates[i].ID); !ok {
			return nil, validationError("update %d is missing an id", i)
		}
	}

	updated := make([]models.Product, 0, len(updates))
	for i := range updates {
		in := &updates[i]
		id, _ := nonEmpty(in.ID)
		product, err := s.repo.Mutate(ctx, id, func(p *models.Product) error {
			return apply(p, in)
		})
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			if errors.Is(err, ErrValidation) {
				return updated, err
			}
			return updated, repoError("product", err)
		}
		updated = append(updated, *product)
	}
	return updated, nil
}

// ImportProducts creates every record in one write. A duplicate id fails
// the whole import.
func (s *ProductService) ImportProducts(ctx context.Context, inputs []ProductInput) ([]models.Product, error) {
	if len(inputs) == 0 {
		return nil, validationError("import requires at least one product")
	}

	products := make([]models.Product, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for i := range inputs {
		p, err := s.build(&inputs[i], true)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("product %s %w: duplicate id in import", p.ID, ErrConflict)
		}
		seen[p.ID] = true
		products = append(products, *p)
	}

	if err := s.repo.CreateMany(ctx, products); err != nil {
		return nil, repoError("products", err)
	}
	return products, nil
}

func (s *ProductService) ExportProducts(ctx context.Context) ([]models.Product, string, error) {
	products, _, err := s.ListProducts(ctx, ProductListParams{})
	if err != nil {
		return nil, "", err
	}
	return products, fmt.Sprintf("products-export-%s.json", s.now().Format("2006-01-02")), nil
}

func (s *ProductService) Stats(ctx context.Context) (*ProductStats, error) {
	products, _, err := s.ListProducts(ctx, ProductListParams{})
	if err != nil {
		return nil, err
	}
	return ComputeStats(products), nil
}

// ComputeStats aggregates totals, per-category and per-status figures.
func ComputeStats(products []models.Product) *ProductStats {
	stats := &ProductStats{
		TotalValue:   decimal.Zero,
		AveragePrice: decimal.Zero,
		Categories:   []CategoryStats{},
		Status:       make(map[inventory.Status]int, 3),
	}
	for _, st := range inventory.Statuses() {
		stats.Status[st] = 0
	}

	byCategory := make(map[string]*CategoryStats)
	var order []string
	priceSum := decimal.Zero

	for i := range products {
		p := &products[i]
		value := p.InventoryValue()

		stats.TotalProducts++
		if p.IsActive {
			stats.ActiveProducts++
		}
		stats.TotalStock += p.Stock
		stats.TotalSales += p.Sales
		stats.TotalValue = stats.TotalValue.Add(value)
		stats.Status[inventory.DeriveStatus(p.Stock)]++
		priceSum = priceSum.Add(p.Price)

		cat, ok := byCategory[p.Category]
		if !ok {
			cat = &CategoryStats{Name: p.Category, Value: decimal.Zero}
			byCategory[p.Category] = cat
			order = append(order, p.Category)
		}
		cat.Count++
		cat.Stock += p.Stock
		cat.Sales += p.Sales
		cat.Value = cat.Value.Add(value)
	}

	sort.Strings(order)
	for _, name := range order {
		stats.Categories = append(stats.Categories, *byCategory[name])
	}

	stats.TotalValue = stats.TotalValue.Round(2)
	if stats.TotalProducts > 0 {
		stats.AveragePrice = priceSum.Div(decimal.NewFromInt(int64(stats.TotalProducts))).Round(2)
	}
	return stats
}
