package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Phalatsane/wings-cafe/internal/dto"
	"github.com/Phalatsane/wings-cafe/internal/model"
	"github.com/Phalatsane/wings-cafe/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// flakyStore wraps a memory store and fails Save on demand.
type flakyStore struct {
	repository.Store
	failSave bool
	saves    int
}

func (s *flakyStore) Save(ctx context.Context, snap *model.Snapshot) error {
	if s.failSave {
		return errors.New("disk full")
	}
	s.saves++
	return s.Store.Save(ctx, snap)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []dto.LedgerEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev dto.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type fixture struct {
	store     *flakyStore
	events    *recordingPublisher
	ledger    *Ledger
	products  ProductService
	inventory InventoryService
	sales     SaleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &flakyStore{Store: repository.NewMemoryStore()}
	events := &recordingPublisher{}
	ledger := NewLedger(store, events, 2)
	ledger.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return &fixture{
		store:     store,
		events:    events,
		ledger:    ledger,
		products:  NewProductService(ledger),
		inventory: NewInventoryService(ledger),
		sales:     NewSaleService(ledger),
	}
}

func (f *fixture) seedProduct(t *testing.T, name string, qty int) *dto.ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		Name:     name,
		Category: "Drinks",
		Price:    12.5,
		Quantity: float64(qty),
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

// ── Product registry ──────────────────────────────────────────────────────────

func TestCreateProduct_DefaultsAndCoercion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "Tea"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.Price.IsZero())
	assert.Equal(t, 0, p.Quantity)

	p2, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "Coffee", Price: "3.75", Quantity: " 8 "})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3.75").Equal(p2.Price))
	assert.Equal(t, 8, p2.Quantity)
	assert.NotEqual(t, p.ID, p2.ID)

	list, err := f.products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Tea", list[0].Name)
	assert.Equal(t, "Coffee", list[1].Name)
}

func TestCreateProduct_RejectsBadNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []dto.CreateProductRequest{
		{Name: "x", Price: "abc"},
		{Name: "x", Price: -1.0},
		{Name: "x", Quantity: "lots"},
		{Name: "x", Quantity: 2.5},
		{Name: "x", Quantity: -3.0},
		{Name: "x", Quantity: true},
	}
	for _, req := range cases {
		_, err := f.products.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput, "request %+v", req)
	}
	list, err := f.products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Muffin", 10)

	newName := "Blueberry Muffin"
	updated, err := f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &newName, Price: "4"})
	require.NoError(t, err)
	assert.Equal(t, "Blueberry Muffin", updated.Name)
	assert.Equal(t, "Drinks", updated.Category)
	assert.True(t, decimal.NewFromInt(4).Equal(updated.Price))
	assert.Equal(t, 10, updated.Quantity, "price edits must not touch quantity")

	// nil fields are "no change"
	same, err := f.products.Update(ctx, p.ID, dto.UpdateProductRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Blueberry Muffin", same.Name)
	assert.True(t, decimal.NewFromInt(4).Equal(same.Price))
}

func TestUpdateProduct_DirectQuantityCorrection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Scone", 10)

	updated, err := f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Quantity: 3.0})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)

	txs, err := f.inventory.ListStockTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs, "direct correction must not create a stock transaction")

	_, err = f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Quantity: -1.0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	f := newFixture(t)
	name := "ghost"
	_, err := f.products.Update(context.Background(), "missing", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct_IdempotentAndNoCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Bagel", 10)

	_, err := f.inventory.AddStock(ctx, p.ID, dto.AddStockRequest{Quantity: 5.0})
	require.NoError(t, err)
	sale, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 4.0})
	require.NoError(t, err)

	require.NoError(t, f.products.Delete(ctx, p.ID))
	require.NoError(t, f.products.Delete(ctx, p.ID))
	require.NoError(t, f.products.Delete(ctx, "never-existed"))

	_, err = f.products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	txs, err := f.inventory.ListStockTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Bagel", txs[0].ProductName)

	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)
	assert.Equal(t, UnknownProductName, sales[0].ProductName)
	assert.True(t, sales[0].Price.IsZero())
}

// ── Stock replenishment ───────────────────────────────────────────────────────

func TestAddStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Latte", 10)

	st, err := f.inventory.AddStock(ctx, p.ID, dto.AddStockRequest{Quantity: "5"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, st.ProductID)
	assert.Equal(t, "Latte", st.ProductName)
	assert.Equal(t, 5, st.Quantity)
	assert.Equal(t, "2026-10-18T12:00:00Z", st.Timestamp)
	assert.Equal(t, 15, f.quantity(t, p.ID))
}

func TestAddStock_InvalidQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Latte", 10)
	savesBefore := f.store.saves

	for _, q := range []any{0.0, -4.0, "abc", nil, "", 1.5} {
		_, err := f.inventory.AddStock(ctx, p.ID, dto.AddStockRequest{Quantity: q})
		assert.ErrorIs(t, err, ErrInvalidInput, "quantity %v", q)
	}
	assert.Equal(t, 10, f.quantity(t, p.ID))
	assert.Equal(t, savesBefore, f.store.saves)

	txs, err := f.inventory.ListStockTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestAddStock_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.inventory.AddStock(context.Background(), "nope", dto.AddStockRequest{Quantity: 3.0})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddStock_NameSnapshotNotSynced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Mocha", 1)
	_, err := f.inventory.AddStock(ctx, p.ID, dto.AddStockRequest{Quantity: 1.0})
	require.NoError(t, err)

	renamed := "Dark Mocha"
	_, err = f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &renamed})
	require.NoError(t, err)

	txs, err := f.inventory.ListStockTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Mocha", txs[0].ProductName)
}

// ── Sales ledger ──────────────────────────────────────────────────────────────

func TestSaleLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Espresso", 10)

	_, err := f.inventory.AddStock(ctx, p.ID, dto.AddStockRequest{Quantity: 5.0})
	require.NoError(t, err)
	assert.Equal(t, 15, f.quantity(t, p.ID))

	_, err = f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 20.0})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 15, f.quantity(t, p.ID))

	sale, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 15.0})
	require.NoError(t, err)
	assert.Equal(t, 0, f.quantity(t, p.ID))

	require.NoError(t, f.sales.Delete(ctx, sale.ID))
	assert.Equal(t, 15, f.quantity(t, p.ID))

	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestRecordSale_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Cookie", 3)

	_, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: "missing", Quantity: 1.0})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 0.0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 4.0})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.Equal(t, 3, f.quantity(t, p.ID))
}

func TestListSales_Enriched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Croissant", 5)

	_, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 2.0})
	require.NoError(t, err)

	// enrichment reflects the current product, not the one at sale time
	newPrice := "9.99"
	_, err = f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Price: newPrice})
	require.NoError(t, err)

	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Croissant", sales[0].ProductName)
	assert.True(t, decimal.RequireFromString("9.99").Equal(sales[0].Price))
	assert.Equal(t, 2, sales[0].Quantity)
}

func TestUpdateSale_QuantityOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Juice", 10)

	sale, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 3.0})
	require.NoError(t, err)
	assert.Equal(t, 7, f.quantity(t, p.ID))

	updated, err := f.sales.Update(ctx, sale.ID, dto.UpdateSaleRequest{Quantity: 1.0})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Quantity)
	assert.Equal(t, p.ID, updated.ProductID)
	assert.Equal(t, 9, f.quantity(t, p.ID), "shrinking a sale by 2 returns 2 units")

	_, err = f.sales.Update(ctx, sale.ID, dto.UpdateSaleRequest{Quantity: 6.0})
	require.NoError(t, err)
	assert.Equal(t, 4, f.quantity(t, p.ID), "growing a sale by 5 takes 5 more units")
}

func TestUpdateSale_CanUseReleasedStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Water", 5)

	sale, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 5.0})
	require.NoError(t, err)
	assert.Equal(t, 0, f.quantity(t, p.ID))

	_, err = f.sales.Update(ctx, sale.ID, dto.UpdateSaleRequest{Quantity: 5.0})
	require.NoError(t, err)
	assert.Equal(t, 0, f.quantity(t, p.ID))
}

func TestUpdateSale_MoveToAnotherProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedProduct(t, "Tea", 10)
	b := f.seedProduct(t, "Coffee", 10)

	sale, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: a.ID, Quantity: 4.0})
	require.NoError(t, err)

	updated, err := f.sales.Update(ctx, sale.ID, dto.UpdateSaleRequest{Quantity: 2.0, ProductID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ProductID)
	assert.Equal(t, 10, f.quantity(t, a.ID))
	assert.Equal(t, 8, f.quantity(t, b.ID))
}

func TestUpdateSale_FailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedProduct(t, "Tea", 10)
	b := f.seedProduct(t, "Coffee", 1)

	sale, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: a.ID, Quantity: 4.0})
	require.NoError(t, err)

	missing := "missing"
	_, err = f.sales.Update(ctx, sale.ID, dto.UpdateSaleRequest{Quantity: 1.0, ProductID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.sales.Update(ctx, sale.ID, dto.UpdateSaleRequest{Quantity: 5.0, ProductID: &b.ID})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = f.sales.Update(ctx, sale.ID, dto.UpdateSaleRequest{Quantity: 15.0})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 6, f.quantity(t, a.ID), "failed updates must not keep the reversal")
	assert.Equal(t, 1, f.quantity(t, b.ID))

	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, a.ID, sales[0].ProductID)
	assert.Equal(t, 4, sales[0].Quantity)
}

func TestUpdateSale_NotFoundAndInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.sales.Update(ctx, "missing", dto.UpdateSaleRequest{Quantity: 1.0})
	assert.ErrorIs(t, err, ErrNotFound)

	p := f.seedProduct(t, "Tea", 10)
	sale, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 1.0})
	require.NoError(t, err)
	_, err = f.sales.Update(ctx, sale.ID, dto.UpdateSaleRequest{Quantity: "zero"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateSale_OriginalProductDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedProduct(t, "Tea", 10)
	b := f.seedProduct(t, "Coffee", 10)

	sale, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: a.ID, Quantity: 4.0})
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, a.ID))

	// reversal is skipped; the new product is charged normally
	_, err = f.sales.Update(ctx, sale.ID, dto.UpdateSaleRequest{Quantity: 3.0, ProductID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, 7, f.quantity(t, b.ID))
}

func TestDeleteSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.sales.Delete(ctx, "missing"), ErrNotFound)

	p := f.seedProduct(t, "Tea", 10)
	sale, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 3.0})
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, p.ID))

	// product gone: the record is still removed
	require.NoError(t, f.sales.Delete(ctx, sale.ID))
	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestQuantityConservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Soda", 20)

	added, sold := 0, 0
	ops := []struct {
		add bool
		qty int
	}{
		{true, 5}, {false, 7}, {false, 3}, {true, 2}, {false, 30}, {false, 10}, {true, 8}, {false, 15},
	}
	for _, op := range ops {
		if op.add {
			_, err := f.inventory.AddStock(ctx, p.ID, dto.AddStockRequest{Quantity: float64(op.qty)})
			require.NoError(t, err)
			added += op.qty
			continue
		}
		if _, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: float64(op.qty)}); err == nil {
			sold += op.qty
		} else {
			assert.ErrorIs(t, err, ErrInsufficientStock)
		}
	}
	assert.Equal(t, 20+added-sold, f.quantity(t, p.ID))

	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	sum := 0
	for _, s := range sales {
		sum += s.Quantity
	}
	assert.Equal(t, sold, sum)
}

// ── Persistence failures ──────────────────────────────────────────────────────

func TestSaveFailureDiscardsMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Tea", 10)

	f.store.failSave = true
	_, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 4.0})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientStock)

	f.store.failSave = false
	assert.Equal(t, 10, f.quantity(t, p.ID))
	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

// ── Events & alerts ───────────────────────────────────────────────────────────

func TestEventsPublishedAfterWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Tea", 3)

	_, err := f.inventory.AddStock(ctx, p.ID, dto.AddStockRequest{Quantity: 1.0})
	require.NoError(t, err)
	sale, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 2.0})
	require.NoError(t, err)
	require.NoError(t, f.sales.Delete(ctx, sale.ID))

	assert.Equal(t, []string{
		dto.EventStockAdded,
		dto.EventSaleRecorded,
		dto.EventStockLow,
		dto.EventSaleDeleted,
	}, f.events.types())

	// failed operations publish nothing
	_, err = f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 99.0})
	require.Error(t, err)
	assert.Len(t, f.events.types(), 4)
}

func TestPublishErrorDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("queue down")
	p := f.seedProduct(t, "Tea", 3)

	_, err := f.inventory.AddStock(context.Background(), p.ID, dto.AddStockRequest{Quantity: 1.0})
	require.NoError(t, err)
	assert.Equal(t, 4, f.quantity(t, p.ID))
}

func TestLowStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "Plenty", 10)
	low := f.seedProduct(t, "Scarce", 2)
	empty := f.seedProduct(t, "Gone", 0)

	resp, err := f.inventory.LowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Threshold)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, low.ID, resp.Products[0].ID)
	assert.Equal(t, empty.ID, resp.Products[1].ID)
}

func TestData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Tea", 3)
	_, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 1.0})
	require.NoError(t, err)

	data, err := f.ledger.Data(ctx)
	require.NoError(t, err)
	require.Len(t, data.Products, 1)
	require.Len(t, data.Transactions, 1)
	assert.Equal(t, p.ID, data.Transactions[0].ProductID)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Limited", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.sales.Record(ctx, dto.RecordSaleRequest{ProductID: p.ID, Quantity: 1.0}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, f.quantity(t, p.ID))
}
