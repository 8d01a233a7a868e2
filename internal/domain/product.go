package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a single physical, one-of-a-kind item listed for sale.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Inventory   int
	Category    string
	Quality     string
	Brand       string
	Size        string
	Weight      string
	Color       string
	// ImageURLs holds up to four hosted image URLs in display order.
	// Empty slots are empty strings.
	ImageURLs [4]string
	// Status is an optional explicit override (e.g. "Sold") set by an admin.
	Status string
}

// Images returns the non-empty image URLs in slot order.
func (p Product) Images() []string {
	out := make([]string, 0, len(p.ImageURLs))
	for _, u := range p.ImageURLs {
		if strings.TrimSpace(u) != "" {
			out = append(out, u)
		}
	}
	return out
}
