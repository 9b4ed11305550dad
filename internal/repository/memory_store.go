package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/Phalatsane/wings-cafe/internal/model"
)

type memoryStore struct {
	mu   sync.Mutex
	snap model.Snapshot
}

// NewMemoryStore returns a process-local Store. Used for DATA_FILE=":memory:"
// and by tests.
func NewMemoryStore() Store {
	s := &memoryStore{}
	s.snap.Normalize()
	return s
}

func (s *memoryStore) Load(_ context.Context) (*model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSnapshot(&s.snap), nil
}

func (s *memoryStore) Save(_ context.Context, snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = *cloneSnapshot(snap)
	return nil
}

func cloneSnapshot(src *model.Snapshot) *model.Snapshot {
	dst := &model.Snapshot{
		Products:          slices.Clone(src.Products),
		Sales:             slices.Clone(src.Sales),
		StockTransactions: slices.Clone(src.StockTransactions),
	}
	dst.Normalize()
	return dst
}
