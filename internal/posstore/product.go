// internal/posstore/product.go
package posstore

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/easyretail/shop-backend/internal/coerce"
	"github.com/easyretail/shop-backend/internal/inventory"
)

const (
	DefaultCategory    = "Clothing"
	DefaultImage       = "📦"
	DefaultDescription = "No description available."
)

// Product is a POS catalogue entry. Prices are plain floats here; the
// server keeps decimals.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Price       float64          `json:"price"`
	Stock       int              `json:"stock"`
	Status      inventory.Status `json:"status"`
	IsActive    bool             `json:"isActive"`
	Sales       int              `json:"sales"`
	Description string           `json:"description"`
	SKU         string           `json:"sku"`
	Image       string           `json:"image"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (p *Product) setStock(stock int) {
	p.Stock = inventory.ClampStock(stock)
	p.Status = inventory.DeriveStatus(p.Stock)
}

// Input is a loosely-typed product body. Nil fields were not supplied and
// any status sent by a client is dropped.
type Input struct {
	ID          *string        `json:"id,omitempty"`
	Name        *string        `json:"name,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Price       *coerce.Number `json:"price,omitempty"`
	Stock       *coerce.Number `json:"stock,omitempty"`
	IsActive    *coerce.Bool   `json:"isActive,omitempty"`
	Sales       *coerce.Number `json:"sales,omitempty"`
	Description *string        `json:"description,omitempty"`
	SKU         *string        `json:"sku,omitempty"`
	Image       *string        `json:"image,omitempty"`
	CreatedAt   *string        `json:"createdAt,omitempty"`
}

type SaleItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

func price(n *coerce.Number) float64 {
	return math.Max(0, n.Float())
}

func text(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}

func orDefault(s *string, def string) string {
	if v, ok := text(s); ok {
		return v
	}
	return def
}

func productID(n int) string { return fmt.Sprintf("PROD-%03d", n) }
func productSKU(n int) string { return fmt.Sprintf("SKU-%03d", n) }

// idNumber extracts the numeric suffix of a PROD-### id.
func idNumber(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, "PROD-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// nextNumber is one past the highest PROD-### suffix in products.
func nextNumber(products []Product) int {
	highest := 0
	for _, p := range products {
		if n, ok := idNumber(p.ID); ok && n > highest {
			highest = n
		}
	}
	return highest + 1
}
