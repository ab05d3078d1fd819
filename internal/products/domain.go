// Package products manages the inventory catalogue.
package products

import (
	"time"

	"github.com/google/uuid"
)

// Product is a stocked inventory item.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	UnitPrice     float64   `json:"unit_price"`
	StockQuantity int       `json:"stock_quantity"`
	ReorderLevel  int       `json:"reorder_level"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var categories = []string{"pipe", "meter", "chemical", "fitting", "tool", "other"}

// Categories returns the accepted product categories.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// IsValidCategory rejects unknown categories at the boundary.
func IsValidCategory(c string) bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ListFilter narrows product listings.
type ListFilter struct {
	Category string
	Page     int
	Limit    int
}
