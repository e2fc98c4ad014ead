package catalog

import (
	"strings"

	"storefront/internal/domain"
)

type predicate func(domain.Product) bool

// Filter returns the products matching every active criterion, in input order.
// The input slice is never modified and the result is never nil.
func Filter(products []domain.Product, criteria domain.FilterCriteria) []domain.Product {
	active := predicates(criteria)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesAll(p, active) {
			out = append(out, p)
		}
	}
	return out
}

func predicates(criteria domain.FilterCriteria) []predicate {
	var active []predicate

	if query := strings.ToLower(criteria.SearchQuery); query != "" {
		active = append(active, func(p domain.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), query) ||
				strings.Contains(strings.ToLower(p.Category), query) ||
				strings.Contains(strings.ToLower(p.Brand), query)
		})
	}

	if criteria.Categories.Len() > 0 {
		categories := criteria.Categories
		active = append(active, func(p domain.Product) bool {
			return categories.Has(p.Category)
		})
	}

	if criteria.Brands.Len() > 0 {
		brands := criteria.Brands
		active = append(active, func(p domain.Product) bool {
			return brands.Has(p.Brand)
		})
	}

	if min, max := criteria.PriceRange.Bounds(); min.IsSet() || max.IsSet() {
		active = append(active, func(p domain.Product) bool {
			return domain.WithinBounds(p.EffectivePrice(), min, max)
		})
	}

	if criteria.OnSale {
		active = append(active, func(p domain.Product) bool {
			return p.OnSale
		})
	}

	return active
}

func matchesAll(p domain.Product, active []predicate) bool {
	for _, match := range active {
		if !match(p) {
			return false
		}
	}
	return true
}

// ApplyCategoryHint merges an externally supplied category (e.g. from a deep link) into criteria.
// The hint is adopted only when it names a known category, no category filter is active,
// and it differs from the active selection. It reports whether criteria changed.
func ApplyCategoryHint(criteria *domain.FilterCriteria, hint string, c *Catalog) bool {
	if hint == "" || !c.HasCategory(hint) {
		return false
	}
	// An active selection already differs from or contains the hint; either way it wins.
	if criteria.Categories.Len() > 0 {
		return false
	}
	criteria.Categories = domain.NewStringSet(hint)
	return true
}
