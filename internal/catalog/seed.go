package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	ID          int     `yaml:"id"`
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Brand       string  `yaml:"brand"`
	Price       string  `yaml:"price"`
	OnSale      bool    `yaml:"on_sale"`
	SalePrice   string  `yaml:"sale_price"`
	Rating      float64 `yaml:"rating"`
	RatingCount int     `yaml:"rating_count"`
	Image       string  `yaml:"image"`
}

// Default returns the catalog bundled with the binary
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultSeed))
}

// LoadFile reads a YAML catalog from path. An empty path yields the bundled catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load decodes a YAML catalog
func Load(r io.Reader) (*Catalog, error) {
	var seed seedFile
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	products := make([]domain.Product, 0, len(seed.Products))
	for _, sp := range seed.Products {
		p, err := sp.toProduct()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return New(products)
}

func (sp seedProduct) toProduct() (domain.Product, error) {
	price, err := decimal.NewFromString(sp.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d: invalid price %q: %w", sp.ID, sp.Price, err)
	}
	if !price.IsPositive() {
		return domain.Product{}, fmt.Errorf("product %d: price must be positive", sp.ID)
	}

	p := domain.Product{
		ID:          sp.ID,
		Name:        sp.Name,
		Category:    sp.Category,
		Brand:       sp.Brand,
		Price:       price,
		OnSale:      sp.OnSale,
		Rating:      sp.Rating,
		RatingCount: sp.RatingCount,
		Image:       sp.Image,
	}

	if sp.OnSale {
		p.SalePrice, err = decimal.NewFromString(sp.SalePrice)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %d: invalid sale price %q: %w", sp.ID, sp.SalePrice, err)
		}
	}

	return p, nil
}
