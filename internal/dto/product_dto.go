package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateProductRequest accepts price and quantity as numbers or numeric
// strings; both default to 0 when absent.
type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Category    string  `json:"category"    validate:"max=120"`
	Price       any     `json:"price"`
	Quantity    any     `json:"quantity"`
	Image       *string `json:"image"`
}

// UpdateProductRequest carries a partial update. A nil field (absent or JSON
// null) leaves the stored value unchanged.
type UpdateProductRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Category    *string `json:"category"    validate:"omitempty,max=120"`
	Price       any     `json:"price"`
	Quantity    any     `json:"quantity"`
	Image       *string `json:"image"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image,omitempty"`
}

type ProductMessageResponse struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// DataResponse is the legacy combined dump served by GET /api/data.
type DataResponse struct {
	Products     []ProductResponse `json:"products"`
	Transactions []SaleResponse    `json:"transactions"`
}
