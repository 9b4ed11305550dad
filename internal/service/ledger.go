package service

import (
	"context"
	"sync"
	"time"

	"github.com/Phalatsane/wings-cafe/internal/dto"
	"github.com/Phalatsane/wings-cafe/internal/model"
	"github.com/Phalatsane/wings-cafe/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EventPublisher receives ledger events after the document has been written.
// A publishing failure never fails the operation that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, ev dto.LedgerEvent) error
}

// Ledger owns the inventory document and serializes every operation on it.
// Each operation loads the full snapshot, mutates it and writes it back while
// holding mu, so read-modify-write cycles never interleave. Nothing is cached
// between operations: a failed write leaves no trace of the mutation.
type Ledger struct {
	mu       sync.Mutex
	store    repository.Store
	events   EventPublisher
	lowStock int

	now   func() time.Time
	newID func() string
}

// NewLedger builds a Ledger over store. events may be nil. Products whose
// quantity drops to lowStock or below emit a stock.low event; a negative
// lowStock disables those events.
func NewLedger(store repository.Store, events EventPublisher, lowStock int) *Ledger {
	return &Ledger{
		store:    store,
		events:   events,
		lowStock: lowStock,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// ledgerTx is the working copy handed to a mutation.
type ledgerTx struct {
	snap   *model.Snapshot
	events []dto.LedgerEvent
	at     time.Time
}

func (tx *ledgerTx) emit(ev dto.LedgerEvent) {
	ev.OccurredAt = tx.at.Format(time.RFC3339)
	tx.events = append(tx.events, ev)
}

// view runs fn against a freshly loaded snapshot.
func (l *Ledger) view(ctx context.Context, fn func(snap *model.Snapshot) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.store.Load(ctx)
	if err != nil {
		return err
	}
	return fn(snap)
}

// update runs fn against a freshly loaded snapshot and persists the result
// only if fn succeeds. fn reports changed=false to skip the write.
func (l *Ledger) update(ctx context.Context, fn func(tx *ledgerTx) (changed bool, err error)) error {
	tx, err := l.commit(ctx, fn)
	if err != nil {
		return err
	}
	l.publish(ctx, tx.events)
	return nil
}

func (l *Ledger) commit(ctx context.Context, fn func(tx *ledgerTx) (bool, error)) (*ledgerTx, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	tx := &ledgerTx{snap: snap, at: l.now()}
	changed, err := fn(tx)
	if err != nil {
		return nil, err
	}
	if !changed {
		return tx, nil
	}
	if err := l.store.Save(ctx, snap); err != nil {
		return nil, err
	}
	return tx, nil
}

func (l *Ledger) publish(ctx context.Context, events []dto.LedgerEvent) {
	if l.events == nil {
		return
	}
	for _, ev := range events {
		if err := l.events.Publish(ctx, ev); err != nil {
			log.Warn().Err(err).Str("event", ev.Type).Str("product_id", ev.ProductID).Msg("ledger event not published")
		}
	}
}

// checkLowStock emits stock.low when p is at or below the threshold.
func (l *Ledger) checkLowStock(tx *ledgerTx, p *model.Product) {
	if l.lowStock < 0 || p.Quantity > l.lowStock {
		return
	}
	tx.emit(dto.LedgerEvent{
		Type:        dto.EventStockLow,
		ProductID:   p.ID,
		ProductName: p.Name,
		StockAfter:  p.Quantity,
	})
}

// Data returns the legacy combined dump of products and raw sales.
func (l *Ledger) Data(ctx context.Context) (*dto.DataResponse, error) {
	var resp dto.DataResponse
	err := l.view(ctx, func(snap *model.Snapshot) error {
		resp.Products = make([]dto.ProductResponse, 0, len(snap.Products))
		for i := range snap.Products {
			resp.Products = append(resp.Products, productToResponse(&snap.Products[i]))
		}
		resp.Transactions = make([]dto.SaleResponse, 0, len(snap.Sales))
		for i := range snap.Sales {
			resp.Transactions = append(resp.Transactions, saleToResponse(&snap.Sales[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping verifies the document can be loaded. Used by the health check.
func (l *Ledger) Ping(ctx context.Context) error {
	return l.view(ctx, func(*model.Snapshot) error { return nil })
}
