package selection

import (
	"context"
	"fmt"

	"deadlines/internal/adapters/storage"
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

// Save replaces the stored selection with ids, keeping their order.
// PRE: ids contains no duplicates
// POST: Load returns exactly ids in order
func (s *SQLiteStore) Save(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin selection save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM selected_calendar`); err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO selected_calendar (calendar_id, position) VALUES (?, ?)`,
			id, i,
		); err != nil {
			return fmt.Errorf("save selection entry: %w", err)
		}
	}
	return tx.Commit()
}

// Load returns the stored selection in saved order.
// POST: returns an empty slice when nothing was saved
func (s *SQLiteStore) Load(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT calendar_id FROM selected_calendar ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan selection entry: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
