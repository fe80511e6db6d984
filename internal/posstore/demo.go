// internal/posstore/demo.go
package posstore

import "time"

const demoDescription = "High quality product with excellent performance."

func demoProducts(now time.Time) []Product {
	seed := []struct {
		name, category, image string
		price                 float64
		stock                 int
	}{
		{"IPhone 14 64GB", "Electronics", "📱", 15800, 30},
		{"MacBook Pro", "Electronics", "💻", 1000, 140},
		{"Rolex Tribute V3", "Accessories", "⌚", 6800, 220},
		{"Red Nike Angelo", "Clothing", "👟", 7800, 78},
		{"Airpod 2", "Electronics", "🎧", 5478, 47},
	}

	products := make([]Product, 0, len(seed))
	for i, d := range seed {
		p := Product{
			ID:          productID(i + 1),
			Name:        d.name,
			Category:    d.category,
			Price:       d.price,
			IsActive:    true,
			Description: demoDescription,
			SKU:         productSKU(i + 1),
			Image:       d.image,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		p.setStock(d.stock)
		products = append(products, p)
	}
	return products
}
