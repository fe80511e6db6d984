// internal/posstore/stats.go
package posstore

import (
	"math"

	"github.com/easyretail/shop-backend/internal/inventory"
)

type CategoryStats struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Stock int     `json:"stock"`
	Value float64 `json:"value"`
	Sales int     `json:"sales"`
}

type Stats struct {
	TotalProducts  int                      `json:"totalProducts"`
	ActiveProducts int                      `json:"activeProducts"`
	TotalStock     int                      `json:"totalStock"`
	TotalSales     int                      `json:"totalSales"`
	TotalValue     float64                  `json:"totalValue"`
	AveragePrice   float64                  `json:"averagePrice"`
	Categories     []CategoryStats          `json:"categories"`
	Status         map[inventory.Status]int `json:"status"`
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// ComputeStats aggregates products. Categories keep first-seen order.
func ComputeStats(products []Product) Stats {
	stats := Stats{
		TotalProducts: len(products),
		Categories:    []CategoryStats{},
		Status:        map[inventory.Status]int{},
	}
	for _, st := range inventory.Statuses() {
		stats.Status[st] = 0
	}

	index := map[string]int{}
	priceSum := 0.0
	for _, p := range products {
		value := p.Price * float64(p.Stock)
		if p.IsActive {
			stats.ActiveProducts++
		}
		stats.TotalStock += p.Stock
		stats.TotalSales += p.Sales
		stats.TotalValue += value
		priceSum += p.Price
		stats.Status[inventory.DeriveStatus(p.Stock)]++

		i, ok := index[p.Category]
		if !ok {
			i = len(stats.Categories)
			index[p.Category] = i
			stats.Categories = append(stats.Categories, CategoryStats{Name: p.Category})
		}
		c := &stats.Categories[i]
		c.Count++
		c.Stock += p.Stock
		c.Value += value
		c.Sales += p.Sales
	}

	stats.TotalValue = round2(stats.TotalValue)
	for i := range stats.Categories {
		stats.Categories[i].Value = round2(stats.Categories[i].Value)
	}
	if len(products) > 0 {
		stats.AveragePrice = round2(priceSum / float64(len(products)))
	}
	return stats
}
