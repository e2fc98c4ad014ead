package domain

import (
	"github.com/shopspring/decimal"
)

// Product represents an immutable catalog entry
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	OnSale      bool            `json:"on_sale"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Rating      float64         `json:"rating"`
	RatingCount int             `json:"rating_count"`
	Image       string          `json:"image"`
}

// EffectivePrice returns the sale price when the product is on sale, otherwise the list price.
// SalePrice < Price is assumed whenever OnSale is set.
func (p Product) EffectivePrice() decimal.Decimal {
	return effectivePrice(p.OnSale, p.Price, p.SalePrice)
}

func effectivePrice(onSale bool, price, salePrice decimal.Decimal) decimal.Decimal {
	if onSale {
		return salePrice
	}
	return price
}
