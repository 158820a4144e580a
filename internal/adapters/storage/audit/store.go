package audit

import (
	"context"

	domain "deadlines/internal/domain/audit"
)

// Store defines the interface for commit-audit persistence.
type Store interface {
	// Save persists a commit receipt.
	// PRE: record is valid
	// POST: record is persisted
	Save(ctx context.Context, record domain.Record) error

	// ListRecent returns the newest records first.
	// PRE: limit > 0
	// POST: returns at most limit records ordered by created_at desc
	ListRecent(ctx context.Context, limit int) ([]domain.Record, error)
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)
