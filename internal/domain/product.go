package domain

import "github.com/shopspring/decimal"

// Product is the backend's product record. Price is always sent, even at
// zero; only the optional text fields drop out of the payload when empty.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  string          `json:"category_id"`
	ImageURL    string          `json:"image_url,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
