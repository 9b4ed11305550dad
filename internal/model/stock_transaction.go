package model

import "time"

// StockTransaction records inventory added to a product. Immutable once created.
// ProductName is a snapshot taken at creation time and is not kept in sync.
type StockTransaction struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
}
