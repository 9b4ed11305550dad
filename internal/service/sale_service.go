package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Phalatsane/wings-cafe/internal/dto"
	"github.com/Phalatsane/wings-cafe/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// UnknownProductName is reported for sales whose product has been deleted.
const UnknownProductName = "Unknown"

// SaleService defines the contract for the sales ledger. Every operation keeps
// product quantities consistent with the recorded sales.
type SaleService interface {
	List(ctx context.Context) ([]dto.SaleListItem, error)
	Record(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateSaleRequest) (*dto.SaleResponse, error)
	Delete(ctx context.Context, id string) error
}

type saleService struct{ ledger *Ledger }

func NewSaleService(ledger *Ledger) SaleService {
	return &saleService{ledger: ledger}
}

// List enriches each sale with the product's current name and price.
func (s *saleService) List(ctx context.Context) ([]dto.SaleListItem, error) {
	var out []dto.SaleListItem
	err := s.ledger.view(ctx, func(snap *model.Snapshot) error {
		out = make([]dto.SaleListItem, 0, len(snap.Sales))
		for i := range snap.Sales {
			sale := &snap.Sales[i]
			item := dto.SaleListItem{
				ID:          sale.ID,
				ProductID:   sale.ProductID,
				Quantity:    sale.Quantity,
				Timestamp:   sale.Timestamp.Format(time.RFC3339),
				ProductName: UnknownProductName,
				Price:       decimal.Zero,
			}
			if pi := snap.ProductIndex(sale.ProductID); pi >= 0 {
				item.ProductName = snap.Products[pi].Name
				item.Price = snap.Products[pi].Price
			}
			out = append(out, item)
		}
		return nil
	})
	return out, err
}

func (s *saleService) Record(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	qty, err := positiveQuantity("quantity", req.Quantity)
	if err != nil {
		return nil, err
	}

	var sale model.Sale
	err = s.ledger.update(ctx, func(tx *ledgerTx) (bool, error) {
		i := tx.snap.ProductIndex(req.ProductID)
		if i < 0 {
			return false, productNotFound(req.ProductID)
		}
		p := &tx.snap.Products[i]
		if p.Quantity < qty {
			return false, insufficientStock(p, qty)
		}
		p.Quantity -= qty

		sale = model.Sale{
			ID:        s.ledger.newID(),
			ProductID: p.ID,
			Quantity:  qty,
			Timestamp: tx.at,
		}
		tx.snap.Sales = append(tx.snap.Sales, sale)
		tx.emit(dto.LedgerEvent{
			Type:        dto.EventSaleRecorded,
			ProductID:   p.ID,
			ProductName: p.Name,
			SaleID:      sale.ID,
			Quantity:    qty,
			StockAfter:  p.Quantity,
		})
		s.ledger.checkLowStock(tx, p)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	resp := saleToResponse(&sale)
	return &resp, nil
}

// Update first gives the old quantity back to the old product, then charges
// the new quantity to the (possibly different) target product. The steps run
// in that order on a working copy, so a same-product update can use the stock
// it just released. Any failure discards the whole working copy.
func (s *saleService) Update(ctx context.Context, id string, req dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	qty, err := positiveQuantity("quantity", req.Quantity)
	if err != nil {
		return nil, err
	}

	var resp dto.SaleResponse
	err = s.ledger.update(ctx, func(tx *ledgerTx) (bool, error) {
		si := tx.snap.SaleIndex(id)
		if si < 0 {
			return false, saleNotFound(id)
		}
		sale := &tx.snap.Sales[si]

		if pi := tx.snap.ProductIndex(sale.ProductID); pi >= 0 {
			tx.snap.Products[pi].Quantity += sale.Quantity
		} else {
			// The old product is gone; its stock cannot be restored.
			log.Warn().Str("sale_id", sale.ID).Str("product_id", sale.ProductID).
				Msg("sale update: original product missing, stock reversal skipped")
		}

		sale.Quantity = qty
		if req.ProductID != nil && *req.ProductID != "" {
			sale.ProductID = *req.ProductID
		}
		sale.Timestamp = tx.at

		ti := tx.snap.ProductIndex(sale.ProductID)
		if ti < 0 {
			return false, productNotFound(sale.ProductID)
		}
		target := &tx.snap.Products[ti]
		if target.Quantity < qty {
			return false, insufficientStock(target, qty)
		}
		target.Quantity -= qty

		tx.emit(dto.LedgerEvent{
			Type:        dto.EventSaleUpdated,
			ProductID:   target.ID,
			ProductName: target.Name,
			SaleID:      sale.ID,
			Quantity:    qty,
			StockAfter:  target.Quantity,
		})
		s.ledger.checkLowStock(tx, target)
		resp = saleToResponse(sale)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes the sale and returns its quantity to the product, if the
// product still exists.
func (s *saleService) Delete(ctx context.Context, id string) error {
	return s.ledger.update(ctx, func(tx *ledgerTx) (bool, error) {
		si := tx.snap.SaleIndex(id)
		if si < 0 {
			return false, saleNotFound(id)
		}
		sale := tx.snap.Sales[si]

		ev := dto.LedgerEvent{
			Type:      dto.EventSaleDeleted,
			ProductID: sale.ProductID,
			SaleID:    sale.ID,
			Quantity:  sale.Quantity,
		}
		if pi := tx.snap.ProductIndex(sale.ProductID); pi >= 0 {
			p := &tx.snap.Products[pi]
			p.Quantity += sale.Quantity
			ev.ProductName = p.Name
			ev.StockAfter = p.Quantity
		} else {
			log.Warn().Str("sale_id", sale.ID).Str("product_id", sale.ProductID).
				Msg("sale delete: product missing, stock reversal skipped")
		}

		tx.snap.Sales = slices.Delete(tx.snap.Sales, si, si+1)
		tx.emit(ev)
		return true, nil
	})
}

func saleNotFound(id string) error {
	return fmt.Errorf("sale %q: %w", id, ErrNotFound)
}

func insufficientStock(p *model.Product, requested int) error {
	return fmt.Errorf("%w for %q: %d available, %d requested", ErrInsufficientStock, p.Name, p.Quantity, requested)
}

func saleToResponse(sale *model.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:        sale.ID,
		ProductID: sale.ProductID,
		Quantity:  sale.Quantity,
		Timestamp: sale.Timestamp.Format(time.RFC3339),
	}
}
