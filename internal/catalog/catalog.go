package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

type document struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

// Catalog is a read-only product list loaded once at startup.
type Catalog struct {
	products   []Product
	categories []Category
	byID       map[int]int
}

// Default loads the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

// MustDefault is Default for program start-up; the embedded document is static.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode document: %w", err)
	}
	return New(doc.Products, doc.Categories)
}

// New builds a catalog from explicit data, keeping the given order.
func New(products []Product, categories []Category) (*Catalog, error) {
	c := &Catalog{
		products:   make([]Product, len(products)),
		categories: make([]Category, len(categories)),
		byID:       make(map[int]int, len(products)),
	}
	copy(c.products, products)
	copy(c.categories, categories)
	for i, p := range c.products {
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateProduct, p.ID)
		}
		c.products[i].Category = strings.ToLower(strings.TrimSpace(p.Category))
		c.byID[p.ID] = i
	}
	return c, nil
}

// Products returns a copy of every product in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Categories returns the browsable category buttons.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Get returns the product with the given id.
func (c *Catalog) Get(id int) (Product, error) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return c.products[idx], nil
}

// Search applies Filter to the catalog's products.
func (c *Catalog) Search(categoryID, searchText string) []Product {
	return Filter(c.products, categoryID, searchText)
}
