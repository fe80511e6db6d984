// internal/models/order.go
package models

import (
	"github.com/shopspring/decimal"
)

type Order struct {
	BaseModel
	CustomerID      *string         `json:"customerId,omitempty" gorm:"type:varchar(64);index"`
	CustomerName    string          `json:"customerName" gorm:"size:255;not null"`
	Email           string          `json:"email" gorm:"size:255"`
	Phone           string          `json:"phone" gorm:"size:50"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	Tax             decimal.Decimal `json:"tax" gorm:"type:decimal(12,2);not null"`
	Shipping        decimal.Decimal `json:"shipping" gorm:"type:decimal(12,2);not null"`
	Total           decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;index"`
	Payment         string          `json:"payment" gorm:"size:50"`
	ShippingAddress string          `json:"shippingAddress" gorm:"type:text"`
	BillingAddress  string          `json:"billingAddress" gorm:"type:text"`
}

type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     string          `json:"-" gorm:"type:varchar(64);not null;index"`
	ProductID   *string         `json:"productId,omitempty" gorm:"type:varchar(64);index"`
	ProductName string          `json:"productName" gorm:"size:255;not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
}

// LineTotal is quantity times unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Recalculate refreshes the derived subtotal and total.
func (o *Order) Recalculate() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Add(o.Tax).Add(o.Shipping)
}
