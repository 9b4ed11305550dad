package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RecordSaleRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  any    `json:"quantity"`
}

// UpdateSaleRequest moves a sale to another product when ProductID is set.
type UpdateSaleRequest struct {
	Quantity  any     `json:"quantity"`
	ProductID *string `json:"productId"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Timestamp string `json:"timestamp"`
}

type SaleMessageResponse struct {
	Message string       `json:"message"`
	Sale    SaleResponse `json:"sale"`
}

// SaleListItem is a sale enriched at read time with the current product
// name and price. Sales of deleted products report "Unknown" and 0.
type SaleListItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	Quantity    int             `json:"quantity"`
	Timestamp   string          `json:"timestamp"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
}
