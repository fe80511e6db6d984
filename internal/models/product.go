// internal/models/product.go
package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/easyretail/shop-backend/internal/inventory"
)

type Product struct {
	BaseModel
	Name        string           `json:"name" gorm:"size:255;not null"`
	Description string           `json:"description" gorm:"type:text"`
	Category    string           `json:"category" gorm:"size:100;index"`
	Price       decimal.Decimal  `json:"price" gorm:"type:decimal(12,2);not null"`
	Stock       int              `json:"stock" gorm:"column:quantity;not null"`
	Status      inventory.Status `json:"status" gorm:"type:varchar(20);not null;index"`
	IsActive    bool             `json:"isActive" gorm:"not null"`
	Sales       int              `json:"sales" gorm:"not null"`
	SKU         string           `json:"sku" gorm:"column:sku;size:100;index"`
	Image       string           `json:"image" gorm:"size:500"`
}

// SetStock stores a new stock count and recomputes the derived status.
// Every code path that changes stock goes through here.
func (p *Product) SetStock(stock int) {
	p.Stock = inventory.ClampStock(stock)
	p.Status = inventory.DeriveStatus(p.Stock)
}

// InventoryValue is price times stock.
func (p *Product) InventoryValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// MarshalJSON adds the quantity alias older clients read stock from.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Quantity int `json:"quantity"`
	}{product(p), p.Stock})
}
