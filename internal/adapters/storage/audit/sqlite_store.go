package audit

import (
	"context"
	"fmt"
	"time"

	"deadlines/internal/adapters/storage"
	domain "deadlines/internal/domain/audit"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db is a valid, open database connection with the schema applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts a commit receipt. Receipts are append-only.
// PRE: record.Validate() returns nil
// POST: record is persisted
func (s *SQLiteStore) Save(ctx context.Context, record domain.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO commit_audit (id, source, calendar_id, event_id, summary, event_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Source, record.CalendarID, record.EventID,
		record.Summary, record.EventDate, record.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save audit record: %w", err)
	}
	return nil
}

// ListRecent returns the newest records first.
// PRE: limit > 0
// POST: returns at most limit records ordered by created_at desc
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, calendar_id, event_id, summary, event_date, created_at
		 FROM commit_audit ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var r domain.Record
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Source, &r.CalendarID, &r.EventID,
			&r.Summary, &r.EventDate, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}
