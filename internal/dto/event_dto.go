package dto

// Ledger event types published after a successful write.
const (
	EventStockAdded   = "stock.added"
	EventSaleRecorded = "sale.recorded"
	EventSaleUpdated  = "sale.updated"
	EventSaleDeleted  = "sale.deleted"
	EventStockLow     = "stock.low"
)

// LedgerEvent is the payload pushed to the event queue.
type LedgerEvent struct {
	Type        string `json:"type"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	SaleID      string `json:"sale_id,omitempty"`
	Quantity    int    `json:"quantity"`
	StockAfter  int    `json:"stock_after"`
	OccurredAt  string `json:"occurred_at"` // RFC 3339
}
