package model

// Snapshot is the whole persisted document. Sales are stored under
// "transactions" for compatibility with existing data files.
type Snapshot struct {
	Products          []Product          `json:"products"`
	Sales             []Sale             `json:"transactions"`
	StockTransactions []StockTransaction `json:"stockTransactions"`
}

// Normalize replaces nil collections with empty ones so a document with
// missing keys behaves like an empty one and encodes as [] instead of null.
func (s *Snapshot) Normalize() {
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Sales == nil {
		s.Sales = []Sale{}
	}
	if s.StockTransactions == nil {
		s.StockTransactions = []StockTransaction{}
	}
}

// ProductIndex returns the position of the product with the given id, or -1.
func (s *Snapshot) ProductIndex(id string) int {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// SaleIndex returns the position of the sale with the given id, or -1.
func (s *Snapshot) SaleIndex(id string) int {
	for i := range s.Sales {
		if s.Sales[i].ID == id {
			return i
		}
	}
	return -1
}
