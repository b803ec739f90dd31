package domain

import "github.com/shopspring/decimal"

// CartLine is one product in the cart with its cached display fields.
// The cart holds at most one line per product id.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	ImageURL  string          `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// WishlistEntry is a saved product with denormalized display fields.
type WishlistEntry struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	ImageURL  string          `json:"image_url,omitempty"`
	Category  string          `json:"category,omitempty"`
}

// LineFromProduct starts a cart line at quantity 1.
func LineFromProduct(p Product) CartLine {
	return CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Stock:     p.Stock,
		ImageURL:  p.ImageURL,
		Quantity:  1,
	}
}

// EntryFromProduct builds a wishlist entry from a product record.
func EntryFromProduct(p Product) WishlistEntry {
	return WishlistEntry{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		ImageURL:  p.ImageURL,
		Category:  p.CategoryID,
	}
}
