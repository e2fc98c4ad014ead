package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func TestParsePriceBound(t *testing.T) {
	tests := []struct {
		name  string
		input string
		set   bool
		value string
	}{
		{"blank", "", false, ""},
		{"whitespace", "   ", false, ""},
		{"integer", "100", true, "100"},
		{"decimal", "49.99", true, "49.99"},
		{"padded", " 10 ", true, "10"},
		{"text", "cheap", false, ""},
		{"trailing garbage", "12abc", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ParsePriceBound(tt.input)
			if b.IsSet() != tt.set {
				t.Fatalf("IsSet() = %v, want %v", b.IsSet(), tt.set)
			}
			if !tt.set {
				return
			}
			v, _ := b.Value()
			if !v.Equal(decimal.RequireFromString(tt.value)) {
				t.Errorf("Value() = %s, want %s", v, tt.value)
			}
		})
	}
}

func TestPriceRangeContains(t *testing.T) {
	price := decimal.NewFromInt(50)

	tests := []struct {
		name string
		r    PriceRange
		want bool
	}{
		{"no bounds", PriceRange{}, true},
		{"inside", PriceRange{Min: "10", Max: "60"}, true},
		{"inclusive min", PriceRange{Min: "50", Max: "60"}, true},
		{"inclusive max", PriceRange{Min: "10", Max: "50"}, true},
		{"below min", PriceRange{Min: "51"}, false},
		{"above max", PriceRange{Max: "49.99"}, false},
		{"bad min ignored", PriceRange{Min: "abc", Max: "60"}, true},
		{"bad max ignored", PriceRange{Min: "10", Max: "?"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(price); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", price, got, tt.want)
			}
		})
	}
}

func TestWithinBoundsMatchesContains(t *testing.T) {
	r := PriceRange{Min: "10", Max: "60"}
	min, max := r.Bounds()

	for _, v := range []int64{5, 10, 35, 60, 61} {
		price := decimal.NewFromInt(v)
		if got, want := WithinBounds(price, min, max), r.Contains(price); got != want {
			t.Errorf("WithinBounds(%s) = %v, Contains = %v", price, got, want)
		}
	}

	if !WithinBounds(decimal.NewFromInt(1_000_000), PriceBound{}, PriceBound{}) {
		t.Error("unset bounds should admit every price")
	}
}

func TestFilterCriteriaToggles(t *testing.T) {
	c := NewFilterCriteria()

	c.ToggleCategory("Audio")
	c.ToggleBrand("Acme")
	if !c.Categories.Has("Audio") || !c.Brands.Has("Acme") {
		t.Fatalf("toggle did not add: %+v", c)
	}

	c.ToggleCategory("Audio")
	if c.Categories.Has("Audio") {
		t.Fatal("second toggle should remove the category")
	}

	c.SetOnSale(true)
	c.SetSearchQuery("phone")
	c.SetPriceRange("1", "2")
	c.Reset()
	if c.OnSale || c.SearchQuery != "" || c.Brands.Len() != 0 || c.PriceRange != (PriceRange{}) {
		t.Fatalf("Reset left state behind: %+v", c)
	}
}

func TestFilterCriteriaZeroValueToggle(t *testing.T) {
	var c FilterCriteria
	c.ToggleBrand("Acme")
	if !c.Brands.Has("Acme") {
		t.Fatal("toggle on zero value criteria should allocate the set")
	}
}

func TestProperty_EffectivePriceFollowsSaleFlag(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("effective price is the sale price only when on sale", prop.ForAll(
		func(priceCents int64, discountCents int64, onSale bool) bool {
			price := decimal.New(priceCents, -2)
			sale := decimal.New(priceCents-discountCents, -2)
			p := Product{Price: price, SalePrice: sale, OnSale: onSale}
			item := NewCartItem(p, 1)

			want := price
			if onSale {
				want = sale
			}
			return p.EffectivePrice().Equal(want) && item.EffectivePrice().Equal(want)
		},
		gen.Int64Range(100, 1000000),
		gen.Int64Range(1, 99),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
