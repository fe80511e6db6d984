// internal/inventory/sale.go
package inventory

// ClampStock keeps a stock count non-negative.
func ClampStock(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ApplySale returns the stock and sales counters after qty units are sold.
// Stock never drops below zero; sales grow by the full quantity sold.
func ApplySale(stock, sales, qty int) (newStock, newSales int) {
	return ClampStock(stock - qty), sales + qty
}
