package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyretail/shop-backend/internal/inventory"
)

func TestProductJSONCarriesQuantityAlias(t *testing.T) {
	p := Product{BaseModel: BaseModel{ID: "p1"}, Name: "Widget", Price: decimal.RequireFromString("9.99")}
	p.SetStock(5)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "p1", out["id"])
	assert.Equal(t, float64(5), out["stock"])
	assert.Equal(t, float64(5), out["quantity"])
	assert.Equal(t, 9.99, out["price"])
	assert.Equal(t, "low-stock", out["status"])
}

func TestSetStockClampsAndDerives(t *testing.T) {
	var p Product
	p.SetStock(-4)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, inventory.StatusOutOfStock, p.Status)

	p.SetStock(42)
	assert.Equal(t, inventory.StatusInStock, p.Status)
}

func TestOrderRecalculate(t *testing.T) {
	o := Order{
		Items: []OrderItem{
			{ProductName: "Premium T-Shirt", Quantity: 2, Price: decimal.RequireFromString("29.99")},
			{ProductName: "Water Bottle", Quantity: 1, Price: decimal.RequireFromString("24.99")},
		},
		Tax:      decimal.RequireFromString("8.50"),
		Shipping: decimal.RequireFromString("5.99"),
	}
	o.Recalculate()

	assert.Equal(t, "84.97", o.Subtotal.StringFixed(2))
	assert.Equal(t, "99.46", o.Total.StringFixed(2))
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusShipped.Valid())
	assert.False(t, OrderStatus("lost").Valid())
}
