package domain

import (
	"github.com/shopspring/decimal"
)

// CartItem is a snapshot of a product taken when it entered the cart.
// Later catalog changes never propagate into it.
type CartItem struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	OnSale    bool            `json:"on_sale"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

// MaxLineQuantity caps the units a single cart or order line may hold
const MaxLineQuantity = 999

// ValidQuantity reports whether q fits a single line
func ValidQuantity(q int) bool {
	return q >= 1 && q <= MaxLineQuantity
}

// NewCartItem snapshots the product's current price fields
func NewCartItem(p Product, quantity int) CartItem {
	return CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		SalePrice: p.SalePrice,
		OnSale:    p.OnSale,
		Quantity:  quantity,
		Image:     p.Image,
	}
}

// EffectivePrice applies the same sale rule as Product, read from the snapshot.
func (i CartItem) EffectivePrice() decimal.Decimal {
	return effectivePrice(i.OnSale, i.Price, i.SalePrice)
}

// LineTotal returns effective price times quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumItems totals the line totals of items
func SumItems(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CountItems sums the quantities of items
func CountItems(items []CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// CloneItems returns an independent copy of items. A nil input yields an empty slice.
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}
