package model

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers; decimal still accepts quoted input.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a sellable item with a tracked quantity on hand.
// Quantity is only changed by stock additions, sales and explicit corrections.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image,omitempty"`
}
