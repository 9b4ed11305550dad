package service

import (
	"context"
	"time"

	"github.com/Phalatsane/wings-cafe/internal/dto"
	"github.com/Phalatsane/wings-cafe/internal/model"
)

// InventoryService defines the contract for stock replenishment.
type InventoryService interface {
	AddStock(ctx context.Context, productID string, req dto.AddStockRequest) (*dto.StockTransactionResponse, error)
	ListStockTransactions(ctx context.Context) ([]dto.StockTransactionResponse, error)
	// LowStock lists products at or below the low-stock threshold, in insertion order.
	LowStock(ctx context.Context) (*dto.StockAlertResponse, error)
}

type inventoryService struct{ ledger *Ledger }

func NewInventoryService(ledger *Ledger) InventoryService {
	return &inventoryService{ledger: ledger}
}

// AddStock increments the product quantity and records the replenishment.
func (s *inventoryService) AddStock(ctx context.Context, productID string, req dto.AddStockRequest) (*dto.StockTransactionResponse, error) {
	qty, err := positiveQuantity("quantity", req.Quantity)
	if err != nil {
		return nil, err
	}

	var st model.StockTransaction
	err = s.ledger.update(ctx, func(tx *ledgerTx) (bool, error) {
		i := tx.snap.ProductIndex(productID)
		if i < 0 {
			return false, productNotFound(productID)
		}
		p := &tx.snap.Products[i]
		p.Quantity += qty

		st = model.StockTransaction{
			ID:          s.ledger.newID(),
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    qty,
			Timestamp:   tx.at,
		}
		tx.snap.StockTransactions = append(tx.snap.StockTransactions, st)
		tx.emit(dto.LedgerEvent{
			Type:        dto.EventStockAdded,
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    qty,
			StockAfter:  p.Quantity,
		})
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	resp := stockTransactionToResponse(&st)
	return &resp, nil
}

func (s *inventoryService) ListStockTransactions(ctx context.Context) ([]dto.StockTransactionResponse, error) {
	var out []dto.StockTransactionResponse
	err := s.ledger.view(ctx, func(snap *model.Snapshot) error {
		out = make([]dto.StockTransactionResponse, 0, len(snap.StockTransactions))
		for i := range snap.StockTransactions {
			out = append(out, stockTransactionToResponse(&snap.StockTransactions[i]))
		}
		return nil
	})
	return out, err
}

func (s *inventoryService) LowStock(ctx context.Context) (*dto.StockAlertResponse, error) {
	resp := &dto.StockAlertResponse{
		Threshold: s.ledger.lowStock,
		Products:  []dto.ProductResponse{},
	}
	err := s.ledger.view(ctx, func(snap *model.Snapshot) error {
		for i := range snap.Products {
			if snap.Products[i].Quantity <= s.ledger.lowStock {
				resp.Products = append(resp.Products, productToResponse(&snap.Products[i]))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func stockTransactionToResponse(st *model.StockTransaction) dto.StockTransactionResponse {
	return dto.StockTransactionResponse{
		ID:          st.ID,
		ProductID:   st.ProductID,
		ProductName: st.ProductName,
		Quantity:    st.Quantity,
		Timestamp:   st.Timestamp.Format(time.RFC3339),
	}
}
