package model

import "time"

// Sale removes Quantity units of a product from stock for as long as it is recorded.
type Sale struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}
