package orchestrators

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"deadlines/internal/adapters/extractor"
	"deadlines/internal/adapters/provider"
	"deadlines/internal/application/eventview"
	"deadlines/internal/application/pipeline"
	"deadlines/internal/domain/audit"
	"deadlines/internal/domain/candidate"
	"deadlines/internal/domain/event"
)

func fixedNow() time.Time {
	return time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)
}

func fixedID() string {
	return "rec-1"
}

type insertCall struct {
	CalendarID string
	Summary    string
	Date       string
}

type mockProvider struct {
	mu        sync.Mutex
	insertErr error
	inserts   []insertCall
	lists     []string
	events    map[string][]event.Event
	nextID    string
}

func newMockProvider() *mockProvider {
	return &mockProvider{events: make(map[string][]event.Event), nextID: "ev-1"}
}

func (m *mockProvider) ListCalendars(ctx context.Context) ([]event.CalendarRef, error) {
	return []event.CalendarRef{{ID: "cal1", Summary: "School"}}, nil
}

func (m *mockProvider) ListEvents(ctx context.Context, calendarID string) ([]event.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists = append(m.lists, calendarID)
	return m.events[calendarID], nil
}

func (m *mockProvider) InsertEvent(ctx context.Context, calendarID, summary, date string) (event.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts = append(m.inserts, insertCall{calendarID, summary, date})
	if m.insertErr != nil {
		return event.Event{}, m.insertErr
	}
	e := event.Event{ID: m.nextID, Summary: summary, Start: event.Start{Date: date}}
	m.events[calendarID] = append(m.events[calendarID], e)
	return e, nil
}

func (m *mockProvider) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return nil
}

type mockAuditStore struct {
	saved []audit.Record
	err   error
}

func (m *mockAuditStore) Save(ctx context.Context, r audit.Record) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, r)
	return nil
}

type stubExtractor struct {
	items []extractor.Item
}

func (s *stubExtractor) Extract(ctx context.Context, text string) ([]extractor.Item, error) {
	return s.items, nil
}

func seededPipeline(t *testing.T, items []extractor.Item) *pipeline.Pipeline {
	t.Helper()
	n := 0
	p := pipeline.New(pipeline.Deps{
		Extractor: &stubExtractor{items: items},
		GenerateID: func() string {
			n++
			return "cand-" + strings.Repeat("x", n)
		},
	})
	if _, err := p.Extract(context.Background(), "seed"); err != nil {
		t.Fatalf("seeding pipeline: %v", err)
	}
	return p
}

// TestExecuteCommitCandidate_Success walks the full happy path: the provider
// receives one insert with the time suffix folded into the summary, the
// candidate leaves the working set, exactly the destination calendar is
// refetched, and a receipt is recorded.
func TestExecuteCommitCandidate_Success(t *testing.T) {
	p := seededPipeline(t, []extractor.Item{
		{Assignment: "Essay", DueDate: "2025-03-01", Time: "14:00"},
		{Assignment: "Quiz", DueDate: "2025-03-08"},
	})
	if err := p.SetDestination(0, "cal1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prov := newMockProvider()
	store := eventview.NewStore(prov)
	auditStore := &mockAuditStore{}

	created, err := ExecuteCommitCandidate(context.Background(), CommitCandidateInput{Index: 0}, CommitCandidateDeps{
		Pipeline:   p,
		Provider:   prov,
		Events:     store,
		AuditStore: auditStore,
		GenerateID: fixedID,
		Now:        fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(prov.inserts) != 1 {
		t.Fatalf("expected exactly 1 insert, got %d", len(prov.inserts))
	}
	call := prov.inserts[0]
	if call.CalendarID != "cal1" || call.Summary != "Essay (14:00)" || call.Date != "2025-03-01" {
		t.Errorf("unexpected insert call: %+v", call)
	}
	if created.ID != "ev-1" {
		t.Errorf("expected created event returned, got %+v", created)
	}

	remaining := p.Candidates()
	if len(remaining) != 1 || remaining[0].Title != "Quiz" {
		t.Errorf("expected committed candidate removed, got %+v", remaining)
	}
	if len(prov.lists) != 1 || prov.lists[0] != "cal1" {
		t.Errorf("expected exactly the destination calendar refetched, got %v", prov.lists)
	}
	if len(store.Events("cal1")) != 1 {
		t.Errorf("expected event view populated, got %d events", len(store.Events("cal1")))
	}

	if len(auditStore.saved) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(auditStore.saved))
	}
	rec := auditStore.saved[0]
	if rec.Source != audit.SourceExtracted || rec.CalendarID != "cal1" || rec.EventID != "ev-1" {
		t.Errorf("unexpected audit record: %+v", rec)
	}
	if !rec.CreatedAt.Equal(fixedNow()) {
		t.Errorf("expected fixed timestamp, got %v", rec.CreatedAt)
	}
}

// TestExecuteCommitCandidate_MissingDestination tests that the precondition
// failure never reaches the provider and the candidate stays put.
func TestExecuteCommitCandidate_MissingDestination(t *testing.T) {
	p := seededPipeline(t, []extractor.Item{{Assignment: "Essay", DueDate: "2025-03-01"}})
	prov := newMockProvider()

	_, err := ExecuteCommitCandidate(context.Background(), CommitCandidateInput{Index: 0}, CommitCandidateDeps{
		Pipeline:   p,
		Provider:   prov,
		Events:     eventview.NewStore(prov),
		GenerateID: fixedID,
		Now:        fixedNow,
	})
	if !errors.Is(err, candidate.ErrMissingDestination) {
		t.Fatalf("expected ErrMissingDestination, got %v", err)
	}
	if len(prov.inserts) != 0 {
		t.Errorf("expected no provider calls, got %d", len(prov.inserts))
	}
	if p.Len() != 1 {
		t.Errorf("expected candidate retained, got %d", p.Len())
	}
}

// TestExecuteCommitCandidate_ProviderFailure tests that a provider failure
// keeps the candidate, with its edits, for retry.
func TestExecuteCommitCandidate_ProviderFailure(t *testing.T) {
	p := seededPipeline(t, []extractor.Item{{Assignment: "Essay", DueDate: "2025-03-01"}})
	p.SetDestination(0, "cal1")
	prov := newMockProvider()
	prov.insertErr = provider.ErrRejected
	store := eventview.NewStore(prov)

	_, err := ExecuteCommitCandidate(context.Background(), CommitCandidateInput{Index: 0}, CommitCandidateDeps{
		Pipeline:   p,
		Provider:   prov,
		Events:     store,
		GenerateID: fixedID,
		Now:        fixedNow,
	})
	if !errors.Is(err, provider.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}

	remaining := p.Candidates()
	if len(remaining) != 1 || remaining[0].ChosenCalendarID != "cal1" {
		t.Fatalf("expected candidate retained with destination, got %+v", remaining)
	}
	if len(prov.lists) != 0 {
		t.Errorf("expected no refetch after failure, got %v", prov.lists)
	}

	// The claim was released: fixing nothing and retrying is allowed.
	prov.insertErr = nil
	if _, err := ExecuteCommitCandidate(context.Background(), CommitCandidateInput{Index: 0}, CommitCandidateDeps{
		Pipeline:   p,
		Provider:   prov,
		Events:     store,
		GenerateID: fixedID,
		Now:        fixedNow,
	}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if p.Len() != 0 {
		t.Errorf("expected candidate committed on retry, got %d left", p.Len())
	}
}

// TestExecuteCommitCandidate_AuditFailureDoesNotFailCommit tests that a
// broken receipt store never undoes a successful commit.
func TestExecuteCommitCandidate_AuditFailureDoesNotFailCommit(t *testing.T) {
	p := seededPipeline(t, []extractor.Item{{Assignment: "Essay", DueDate: "2025-03-01"}})
	p.SetDestination(0, "cal1")
	prov := newMockProvider()

	_, err := ExecuteCommitCandidate(context.Background(), CommitCandidateInput{Index: 0}, CommitCandidateDeps{
		Pipeline:   p,
		Provider:   prov,
		Events:     eventview.NewStore(prov),
		AuditStore: &mockAuditStore{err: errors.New("disk full")},
		GenerateID: fixedID,
		Now:        fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Len() != 0 {
		t.Errorf("expected candidate committed, got %d left", p.Len())
	}
}
