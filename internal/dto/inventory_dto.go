package dto

type AddStockRequest struct {
	Quantity any `json:"quantity"`
}

type StockTransactionResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Timestamp   string `json:"timestamp"`
}

type StockTransactionMessageResponse struct {
	Message          string                   `json:"message"`
	StockTransaction StockTransactionResponse `json:"stockTransaction"`
}

// StockAlertResponse lists products at or below the configured low-stock threshold.
type StockAlertResponse struct {
	Threshold int               `json:"threshold"`
	Products  []ProductResponse `json:"products"`
}
