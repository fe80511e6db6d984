// internal/inventory/status.go
package inventory

// Status is the stock label shown for a product. It is always derived from
// the stock count and never authored directly.
type Status string

const (
	StatusInStock    Status = "in-stock"
	StatusLowStock   Status = "low-stock"
	StatusOutOfStock Status = "out-of-stock"
)

// LowStockMax is the highest stock count still reported as low stock.
const LowStockMax = 10

// Thresholds parameterizes the derivation rule.
type Thresholds struct {
	LowStockMax int
}

// DefaultThresholds is the rule every mutation path uses.
var DefaultThresholds = Thresholds{LowStockMax: LowStockMax}

// Derive maps a stock count to its status. Negative counts are treated as zero.
func (t Thresholds) Derive(stock int) Status {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock <= t.LowStockMax:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// DeriveStatus applies DefaultThresholds.
func DeriveStatus(stock int) Status {
	return DefaultThresholds.Derive(stock)
}

func (s Status) Valid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusInStock, StatusLowStock, StatusOutOfStock}
}
