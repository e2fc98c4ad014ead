package catalog

import (
	"sort"
	"strings"

	"storefront/internal/domain"
)

// SortKey selects a product ordering
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
)

// Sort returns a sorted copy of products. Unknown keys keep catalog order.
func Sort(products []domain.Product, key SortKey) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)

	var less func(a, b domain.Product) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b domain.Product) bool { return a.EffectivePrice().LessThan(b.EffectivePrice()) }
	case SortPriceDesc:
		less = func(a, b domain.Product) bool { return a.EffectivePrice().GreaterThan(b.EffectivePrice()) }
	case SortRating:
		less = func(a, b domain.Product) bool { return a.Rating > b.Rating }
	case SortName:
		less = func(a, b domain.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
