package repository

import (
	"context"

	"github.com/Phalatsane/wings-cafe/internal/model"
)

// Store persists the whole inventory document. Implementations read and write
// the full snapshot on every call; there is no incremental path.
// Services depend on this interface so tests can swap in an in-memory store.
type Store interface {
	// Load returns a fresh copy of the persisted document. Missing collections
	// come back as empty slices.
	Load(ctx context.Context) (*model.Snapshot, error)
	// Save replaces the persisted document with s.
	Save(ctx context.Context, s *model.Snapshot) error
}
