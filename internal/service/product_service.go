package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/Phalatsane/wings-cafe/internal/dto"
	"github.com/Phalatsane/wings-cafe/internal/model"
)

// ProductService defines the business logic contract for the product registry.
type ProductService interface {
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Get(ctx context.Context, id string) (*dto.ProductResponse, error)
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	// Delete is idempotent: removing an unknown id succeeds.
	Delete(ctx context.Context, id string) error
}

type productService struct{ ledger *Ledger }

func NewProductService(ledger *Ledger) ProductService {
	return &productService{ledger: ledger}
}

func (s *productService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	var out []dto.ProductResponse
	err := s.ledger.view(ctx, func(snap *model.Snapshot) error {
		out = make([]dto.ProductResponse, 0, len(snap.Products))
		for i := range snap.Products {
			out = append(out, productToResponse(&snap.Products[i]))
		}
		return nil
	})
	return out, err
}

func (s *productService) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var resp dto.ProductResponse
	err := s.ledger.view(ctx, func(snap *model.Snapshot) error {
		i := snap.ProductIndex(id)
		if i < 0 {
			return productNotFound(id)
		}
		resp = productToResponse(&snap.Products[i])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	price, _, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}
	qty, _, err := parseQuantity("quantity", req.Quantity)
	if err != nil {
		return nil, err
	}
	if qty < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}

	p := model.Product{
		ID:          s.ledger.newID(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       price,
		Quantity:    qty,
	}
	if req.Image != nil {
		p.Image = *req.Image
	}

	err = s.ledger.update(ctx, func(tx *ledgerTx) (bool, error) {
		tx.snap.Products = append(tx.snap.Products, p)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	resp := productToResponse(&p)
	return &resp, nil
}

// Update applies only the provided fields. An explicit quantity is a direct
// correction and does not produce a stock transaction.
func (s *productService) Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	price, hasPrice, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}
	qty, hasQty, err := parseQuantity("quantity", req.Quantity)
	if err != nil {
		return nil, err
	}
	if hasQty && qty < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}

	var resp dto.ProductResponse
	err = s.ledger.update(ctx, func(tx *ledgerTx) (bool, error) {
		i := tx.snap.ProductIndex(id)
		if i < 0 {
			return false, productNotFound(id)
		}
		p := &tx.snap.Products[i]
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Category != nil {
			p.Category = *req.Category
		}
		if hasPrice {
			p.Price = price
		}
		if hasQty {
			p.Quantity = qty
		}
		if req.Image != nil {
			p.Image = *req.Image
		}
		resp = productToResponse(p)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete leaves sales and stock transactions that reference the product untouched.
func (s *productService) Delete(ctx context.Context, id string) error {
	return s.ledger.update(ctx, func(tx *ledgerTx) (bool, error) {
		before := len(tx.snap.Products)
		tx.snap.Products = slices.DeleteFunc(tx.snap.Products, func(p model.Product) bool {
			return p.ID == id
		})
		return len(tx.snap.Products) != before, nil
	})
}

func productNotFound(id string) error {
	return fmt.Errorf("product %q: %w", id, ErrNotFound)
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Image:       p.Image,
	}
}
