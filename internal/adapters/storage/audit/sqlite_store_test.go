package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"deadlines/internal/adapters/storage"
	domain "deadlines/internal/domain/audit"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return NewSQLiteStore(db)
}

func validRecord(modify func(*domain.Record)) domain.Record {
	r := domain.Record{
		ID:         "rec-1",
		Source:     domain.SourceExtracted,
		CalendarID: "cal1",
		EventID:    "ev-1",
		Summary:    "Essay (14:00)",
		EventDate:  "2025-03-01",
		CreatedAt:  time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC),
	}
	if modify != nil {
		modify(&r)
	}
	return r
}

// TestSQLiteStore_SaveAndListRecent verifies the round trip and the
// newest-first ordering.
func TestSQLiteStore_SaveAndListRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := validRecord(nil)
	newer := validRecord(func(r *domain.Record) {
		r.ID = "rec-2"
		r.Source = domain.SourceManual
		r.EventID = "ev-2"
		r.CreatedAt = older.CreatedAt.Add(time.Hour)
	})
	if err := store.Save(ctx, older); err != nil {
		t.Fatalf("Save older: %v", err)
	}
	if err := store.Save(ctx, newer); err != nil {
		t.Fatalf("Save newer: %v", err)
	}

	got, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != "rec-2" || got[1].ID != "rec-1" {
		t.Errorf("expected newest first, got %s then %s", got[0].ID, got[1].ID)
	}
	if got[1].Summary != "Essay (14:00)" || got[1].EventDate != "2025-03-01" {
		t.Errorf("fields not preserved: %+v", got[1])
	}
	if !got[1].CreatedAt.Equal(older.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got[1].CreatedAt, older.CreatedAt)
	}
}

// TestSQLiteStore_ListRecentLimit verifies the limit is honored.
func TestSQLiteStore_ListRecentLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		r := validRecord(func(r *domain.Record) {
			r.ID = "rec-" + string(rune('a'+i))
			r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		})
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := store.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 records, got %d", len(got))
	}
}

// TestSQLiteStore_SaveRejectsInvalid verifies validation runs before the
// insert.
func TestSQLiteStore_SaveRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		modify func(*domain.Record)
	}{
		{"empty id", func(r *domain.Record) { r.ID = "" }},
		{"bad source", func(r *domain.Record) { r.Source = "imported" }},
		{"empty calendar", func(r *domain.Record) { r.CalendarID = "" }},
		{"empty event id", func(r *domain.Record) { r.EventID = "" }},
		{"empty summary", func(r *domain.Record) { r.Summary = "" }},
		{"bad date", func(r *domain.Record) { r.EventDate = "March 1st" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Save(ctx, validRecord(tt.modify)); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	got, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records persisted, got %d", len(got))
	}
}
