package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// StringSet is an unordered set of strings. The zero value is an empty set.
type StringSet map[string]struct{}

// NewStringSet builds a set from values
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s StringSet) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Clone copies the set
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// PriceBound is an optional price limit. A bound whose text failed to parse is unset.
type PriceBound struct {
	value decimal.Decimal
	set   bool
}

// ParsePriceBound parses free text into a bound. Blank or non-numeric text yields an unset bound.
func ParsePriceBound(text string) PriceBound {
	text = strings.TrimSpace(text)
	if text == "" {
		return PriceBound{}
	}
	value, err := decimal.NewFromString(text)
	if err != nil {
		return PriceBound{}
	}
	return PriceBound{value: value, set: true}
}

func (b PriceBound) IsSet() bool {
	return b.set
}

// Value returns the bound and whether it is set
func (b PriceBound) Value() (decimal.Decimal, bool) {
	return b.value, b.set
}

// PriceRange holds the raw text of the min and max inputs. Parsing happens lazily in Bounds.
type PriceRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// Bounds parses both ends of the range
func (r PriceRange) Bounds() (min, max PriceBound) {
	return ParsePriceBound(r.Min), ParsePriceBound(r.Max)
}

// Contains reports whether price lies within the set bounds, inclusive
func (r PriceRange) Contains(price decimal.Decimal) bool {
	min, max := r.Bounds()
	return WithinBounds(price, min, max)
}

// WithinBounds reports whether price lies within the already parsed bounds, inclusive
func WithinBounds(price decimal.Decimal, min, max PriceBound) bool {
	if v, ok := min.Value(); ok && price.LessThan(v) {
		return false
	}
	if v, ok := max.Value(); ok && price.GreaterThan(v) {
		return false
	}
	return true
}

// FilterCriteria describes the active catalog filters. Empty sets and blank text mean unrestricted.
type FilterCriteria struct {
	Categories  StringSet  `json:"categories"`
	Brands      StringSet  `json:"brands"`
	OnSale      bool       `json:"on_sale"`
	SearchQuery string     `json:"search_query"`
	PriceRange  PriceRange `json:"price_range"`
}

// NewFilterCriteria returns criteria with every filter inactive
func NewFilterCriteria() FilterCriteria {
	return FilterCriteria{
		Categories: StringSet{},
		Brands:     StringSet{},
	}
}

// ToggleCategory adds category if absent, removes it otherwise
func (c *FilterCriteria) ToggleCategory(category string) {
	c.Categories = toggle(c.Categories, category)
}

// ToggleBrand adds brand if absent, removes it otherwise
func (c *FilterCriteria) ToggleBrand(brand string) {
	c.Brands = toggle(c.Brands, brand)
}

func (c *FilterCriteria) SetOnSale(onSale bool) {
	c.OnSale = onSale
}

func (c *FilterCriteria) SetSearchQuery(query string) {
	c.SearchQuery = query
}

func (c *FilterCriteria) SetPriceRange(min, max string) {
	c.PriceRange = PriceRange{Min: min, Max: max}
}

// Reset clears every filter
func (c *FilterCriteria) Reset() {
	*c = NewFilterCriteria()
}

// Clone returns a deep copy
func (c FilterCriteria) Clone() FilterCriteria {
	c.Categories = c.Categories.Clone()
	c.Brands = c.Brands.Clone()
	return c
}

func toggle(s StringSet, v string) StringSet {
	if s == nil {
		s = StringSet{}
	}
	if s.Has(v) {
		delete(s, v)
	} else {
		s[v] = struct{}{}
	}
	return s
}
