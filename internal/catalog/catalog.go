package catalog

import (
	"errors"
	"fmt"

	"storefront/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateID     = errors.New("duplicate product id")
)

// Catalog is an immutable, in-memory product collection
type Catalog struct {
	products   []domain.Product
	byID       map[int]int
	categories domain.StringSet
	brands     domain.StringSet
}

// New builds a catalog from products, keeping their order. Product ids must be unique.
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		products:   make([]domain.Product, len(products)),
		byID:       make(map[int]int, len(products)),
		categories: domain.StringSet{},
		brands:     domain.StringSet{},
	}
	copy(c.products, products)

	for i, p := range c.products {
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		c.byID[p.ID] = i
		c.categories[p.Category] = struct{}{}
		c.brands[p.Brand] = struct{}{}
	}

	return c, nil
}

// Products returns a copy of every product in catalog order
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// FindByID looks a product up by id
func (c *Catalog) FindByID(id int) (domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	return c.products[i], nil
}

// Categories returns the distinct categories, sorted
func (c *Catalog) Categories() []string {
	return c.categories.Sorted()
}

// Brands returns the distinct brands, sorted
func (c *Catalog) Brands() []string {
	return c.brands.Sorted()
}

// HasCategory reports whether any product belongs to category
func (c *Catalog) HasCategory(category string) bool {
	return c.categories.Has(category)
}

// Filter applies criteria to the whole catalog
func (c *Catalog) Filter(criteria domain.FilterCriteria) []domain.Product {
	return Filter(c.products, criteria)
}
