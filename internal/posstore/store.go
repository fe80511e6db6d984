// internal/posstore/store.go
package posstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/easyretail/shop-backend/internal/inventory"
)

// Store holds the POS catalogue. Every action persists the new state before
// it becomes visible; a failed save leaves the store unchanged.
type Store struct {
	mu        sync.RWMutex
	products  []Product
	persister Persister
	now       func() time.Time
}

// New returns an empty store. A nil persister keeps state in memory only.
func New(persister Persister) *Store {
	return &Store{persister: persister, now: time.Now}
}

// Open loads the saved snapshot, migrating older formats.
func Open(ctx context.Context, persister Persister) (*Store, error) {
	s := New(persister)
	if persister == nil {
		return s, nil
	}

	data, err := persister.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load POS snapshot: %w", err)
	}

	products, version, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if version < SnapshotVersion {
		logrus.WithFields(logrus.Fields{
			"from":     version,
			"to":       SnapshotVersion,
			"products": len(products),
		}).Info("Migrated POS snapshot")
	}
	s.products = products
	return s, nil
}

// commit persists next and then swaps it in. Caller holds s.mu.
func (s *Store) commit(ctx context.Context, next []Product) error {
	if s.persister != nil {
		data, err := Encode(next)
		if err != nil {
			return err
		}
		if err := s.persister.Save(ctx, data); err != nil {
			return fmt.Errorf("failed to save POS snapshot: %w", err)
		}
	}
	s.products = next
	return nil
}

func (s *Store) snapshot() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) indexOf(products []Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) build(in *Input, number int, imported bool) (Product, error) {
	name, ok := text(in.Name)
	if !ok {
		return Product{}, invalid("name is required")
	}

	now := s.now().UTC()
	p := Product{
		ID:          productID(number),
		Name:        name,
		Category:    orDefault(in.Category, DefaultCategory),
		Price:       price(in.Price),
		IsActive:    true,
		Description: orDefault(in.Description, DefaultDescription),
		SKU:         productSKU(number),
		Image:       orDefault(in.Image, DefaultImage),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.setStock(in.Stock.Int())

	if imported {
		if id, ok := text(in.ID); ok {
			p.ID = id
		}
		if sku, ok := text(in.SKU); ok {
			p.SKU = sku
		}
		p.IsActive = in.IsActive.Value(true)
		p.Sales = inventory.ClampStock(in.Sales.Int())
		if v, ok := text(in.CreatedAt); ok {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				p.CreatedAt = t.UTC()
			}
		}
	}
	return p, nil
}

func (s *Store) apply(p *Product, in *Input) error {
	if in.Name != nil {
		name, ok := text(in.Name)
		if !ok {
			return invalid("name cannot be empty")
		}
		p.Name = name
	}
	if in.Category != nil {
		p.Category = orDefault(in.Category, DefaultCategory)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Image != nil {
		p.Image = orDefault(in.Image, DefaultImage)
	}
	if in.Price != nil {
		p.Price = price(in.Price)
	}
	if in.Stock != nil {
		p.setStock(in.Stock.Int())
	}
	if in.IsActive != nil {
		p.IsActive = in.IsActive.Value(p.IsActive)
	}
	p.UpdatedAt = s.now().UTC()
	return nil
}

// Add creates a product with the next PROD-### id.
func (s *Store) Add(ctx context.Context, in Input) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.build(&in, nextNumber(s.products), false)
	if err != nil {
		return Product{}, err
	}
	if err := s.commit(ctx, append(s.snapshot(), p)); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Update applies a partial update.
func (s *Store) Update(ctx context.Context, id string, in Input) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	i := s.indexOf(next, id)
	if i < 0 {
		return Product{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err := s.apply(&next[i], &in); err != nil {
		return Product{}, err
	}
	if err := s.commit(ctx, next); err != nil {
		return Product{}, err
	}
	return next[i], nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	i := s.indexOf(next, id)
	if i < 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return s.commit(ctx, append(next[:i], next[i+1:]...))
}

// ToggleActive flips isActive. Stock and status are untouched.
func (s *Store) ToggleActive(ctx context.Context, id string) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	i := s.indexOf(next, id)
	if i < 0 {
		return Product{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	next[i].IsActive = !next[i].IsActive
	next[i].UpdatedAt = s.now().UTC()
	if err := s.commit(ctx, next); err != nil {
		return Product{}, err
	}
	return next[i], nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, []Product{})
}

// Import appends records using create rules, keeping any supplied id, sku,
// sales, isActive and createdAt. A repeated id rejects the whole batch.
func (s *Store) Import(ctx context.Context, inputs []Input) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	seen := make(map[string]bool, len(next)+len(inputs))
	for _, p := range next {
		seen[p.ID] = true
	}

	number := nextNumber(next)
	imported := make([]Product, 0, len(inputs))
	for i := range inputs {
		p, err := s.build(&inputs[i], number, true)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%s: %w", p.ID, ErrDuplicate)
		}
		seen[p.ID] = true
		if n, ok := idNumber(p.ID); ok && n >= number {
			number = n + 1
		}
		imported = append(imported, p)
	}

	if err := s.commit(ctx, append(next, imported...)); err != nil {
		return nil, err
	}
	return imported, nil
}

// BulkUpdate applies partial updates by id, skipping unknown ids.
func (s *Store) BulkUpdate(ctx context.Context, updates []Input) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range updates {
		if _, ok := text(updates[i].ID); !ok {
			return nil, invalid("update %d is missing an id", i)
		}
	}

	next := s.snapshot()
	touched := make([]int, 0, len(updates))
	for i := range updates {
		id, _ := text(updates[i].ID)
		j := s.indexOf(next, id)
		if j < 0 {
			continue
		}
		if err := s.apply(&next[j], &updates[i]); err != nil {
			return nil, err
		}
		touched = append(touched, j)
	}

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	updated := make([]Product, 0, len(touched))
	for _, j := range touched {
		updated = append(updated, next[j])
	}
	return updated, nil
}

// RecordSale decrements stock and grows sales for each sold line. Unknown
// ids are skipped; repeated ids accumulate.
func (s *Store) RecordSale(ctx context.Context, items []SaleItem) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			return nil, invalid("sold item is missing a product id")
		}
		if item.Quantity <= 0 {
			return nil, invalid("quantity for %s must be greater than zero", item.ID)
		}
	}

	next := s.snapshot()
	now := s.now().UTC()
	var touched []int
	for _, item := range items {
		i := s.indexOf(next, item.ID)
		if i < 0 {
			logrus.WithField("product_id", item.ID).Warn("sale recorded for unknown POS product, skipping")
			continue
		}
		stock, sales := inventory.ApplySale(next[i].Stock, next[i].Sales, item.Quantity)
		next[i].setStock(stock)
		next[i].Sales = sales
		next[i].UpdatedAt = now
		touched = append(touched, i)
	}

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	updated := make([]Product, 0, len(touched))
	for _, i := range touched {
		updated = append(updated, next[i])
	}
	return updated, nil
}

// ResetDemo replaces the catalogue with the demo products.
func (s *Store) ResetDemo(ctx context.Context) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	demo := demoProducts(s.now().UTC())
	if err := s.commit(ctx, demo); err != nil {
		return nil, err
	}
	return append([]Product(nil), demo...), nil
}

func (s *Store) Get(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(s.products, id); i >= 0 {
		return s.products[i], true
	}
	return Product{}, false
}

// List returns every product in insertion order.
func (s *Store) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Store) filter(keep func(Product) bool) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Product{}
	for _, p := range s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// POSProducts is what the till shows: active products only.
func (s *Store) POSProducts() []Product {
	return s.filter(func(p Product) bool { return p.IsActive })
}

func (s *Store) ByCategory(category string) []Product {
	if category == "" || category == "all" {
		return s.List()
	}
	return s.filter(func(p Product) bool { return p.Category == category })
}

// Search matches name, id, sku or category case-insensitively.
func (s *Store) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	return s.filter(func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.ID), q) ||
			strings.Contains(strings.ToLower(p.SKU), q) ||
			strings.Contains(strings.ToLower(p.Category), q)
	})
}

func (s *Store) LowStock() []Product {
	return s.filter(func(p Product) bool { return p.Status == inventory.StatusLowStock })
}

func (s *Store) OutOfStock() []Product {
	return s.filter(func(p Product) bool { return p.Status == inventory.StatusOutOfStock })
}

// Categories lists distinct categories in first-seen order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	out := []string{}
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

func (s *Store) Stats() Stats {
	return ComputeStats(s.List())
}

// Export renders the catalogue as an indented JSON array and the download
// file name for today.
func (s *Store) Export() ([]byte, string, error) {
	data, err := json.MarshalIndent(s.List(), "", "  ")
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("products-export-%s.json", s.now().Format("2006-01-02")), nil
}
