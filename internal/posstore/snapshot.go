// internal/posstore/snapshot.go
package posstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/easyretail/shop-backend/internal/coerce"
	"github.com/easyretail/shop-backend/internal/inventory"
)

// SnapshotVersion is written by Encode.
//
//	0: bare JSON array, the browser "pos-products" value
//	1: {"version":1,"products":[...]} without isActive or sales
//	2: {"version":2,"products":[...]}
const SnapshotVersion = 2

type snapshotOut struct {
	Version  int       `json:"version"`
	Products []Product `json:"products"`
}

type snapshotIn struct {
	Version  int      `json:"version"`
	Products []record `json:"products"`
}

// record is a product as found on disk, before normalisation.
type record struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       *coerce.Number  `json:"price"`
	Stock       *coerce.Number  `json:"stock"`
	IsActive    *coerce.Bool    `json:"isActive"`
	Sales       json.RawMessage `json:"sales"`
	Description string          `json:"description"`
	SKU         string          `json:"sku"`
	Image       string          `json:"image"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

func Encode(products []Product) ([]byte, error) {
	if products == nil {
		products = []Product{}
	}
	data, err := json.MarshalIndent(snapshotOut{Version: SnapshotVersion, Products: products}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode POS snapshot: %w", err)
	}
	return data, nil
}

// Decode reads any known snapshot version and returns the products with
// isActive defaulted to true, non-numeric sales set to 0 and status
// recomputed from stock. It also reports the version it found.
func Decode(data []byte) ([]Product, int, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Product{}, SnapshotVersion, nil
	}

	var in snapshotIn
	if data[0] == '[' {
		if err := json.Unmarshal(data, &in.Products); err != nil {
			return nil, 0, fmt.Errorf("failed to decode POS snapshot: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, 0, fmt.Errorf("failed to decode POS snapshot: %w", err)
		}
		if in.Version > SnapshotVersion {
			return nil, in.Version, fmt.Errorf("unsupported POS snapshot version %d", in.Version)
		}
	}

	products := make([]Product, 0, len(in.Products))
	for _, r := range in.Products {
		products = append(products, r.normalise())
	}
	return products, in.Version, nil
}

func (r record) normalise() Product {
	p := Product{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Price:       price(r.Price),
		IsActive:    r.IsActive.Value(true),
		Sales:       numericSales(r.Sales),
		Description: r.Description,
		SKU:         r.SKU,
		Image:       r.Image,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Image == "" {
		p.Image = DefaultImage
	}
	p.setStock(r.Stock.Int())
	return p
}

// numericSales keeps JSON numbers only; strings, null and missing are 0.
func numericSales(raw json.RawMessage) int {
	s := strings.TrimSpace(string(raw))
	if s == "" || !(s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) {
		return 0
	}
	return inventory.ClampStock(coerce.Int(s))
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
