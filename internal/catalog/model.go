// Package catalog serves the static product list and its client-side style filter.
package catalog

import "fmt"

// CategoryAll is the identity category: filtering by it keeps every product.
const CategoryAll = "all"

// Product is an immutable catalog entry.
type Product struct {
	ID          int     `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Price       int     `json:"price" yaml:"price"`
	Unit        string  `json:"unit" yaml:"unit"`
	Rating      float64 `json:"rating" yaml:"rating"`
	Category    string  `json:"category" yaml:"category"`
	ImageURL    string  `json:"imageUrl" yaml:"image_url"`
}

// Descriptor is the short product label used in lead notifications.
func (p Product) Descriptor() string {
	return fmt.Sprintf("%s (₹%d/%s)", p.Title, p.Price, p.Unit)
}

// ShareText is the message offered by the product card's share action.
func (p Product) ShareText(businessName string) string {
	return fmt.Sprintf("Check out %s from %s - Only ₹%d/%s!", p.Title, businessName, p.Price, p.Unit)
}

// Category is a browsable filter button.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon" yaml:"icon"`
}
