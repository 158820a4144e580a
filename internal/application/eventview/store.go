package eventview

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"deadlines/internal/adapters/provider"
	"deadlines/internal/domain/event"
)

// Store is the single source of truth for what is rendered per calendar: a
// calendarId -> fetched-events mapping. Entries are always repopulated
// wholesale from the provider, never merged or edited in place; the provider
// stays authoritative.
type Store struct {
	mu         sync.RWMutex
	byCalendar map[string][]event.Event
	provider   provider.Client
}

// NewStore creates an empty store backed by the given provider.
func NewStore(p provider.Client) *Store {
	return &Store{
		byCalendar: make(map[string][]event.Event),
		provider:   p,
	}
}

// Refresh refetches each calendar in ids independently and concurrently. A
// calendar whose fetch fails gets an empty list so one broken calendar never
// blanks out the others; entries outside ids are untouched. An empty ids
// slice clears the whole mapping with no provider calls. Each calendar's
// result lands atomically.
func (s *Store) Refresh(ctx context.Context, ids []string) map[string][]event.Event {
	if len(ids) == 0 {
		s.mu.Lock()
		s.byCalendar = make(map[string][]event.Event)
		s.mu.Unlock()
		return map[string][]event.Event{}
	}

	fetched := make(map[string][]event.Event, len(ids))
	var fetchedMu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(calID string) {
			defer wg.Done()
			events, err := s.provider.ListEvents(ctx, calID)
			if err != nil {
				slog.Warn("calendar_fetch_failed", "calendar_id", calID, "error", err.Error())
				events = []event.Event{}
			}
			if events == nil {
				events = []event.Event{}
			}
			fetchedMu.Lock()
			fetched[calID] = events
			fetchedMu.Unlock()
		}(id)
	}
	wg.Wait()

	s.mu.Lock()
	for id, events := range fetched {
		s.byCalendar[id] = events
	}
	s.mu.Unlock()

	return fetched
}

// Events returns the stored list for one calendar; empty when the calendar
// has never been fetched.
func (s *Store) Events(calendarID string) []event.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]event.Event, len(s.byCalendar[calendarID]))
	copy(out, s.byCalendar[calendarID])
	return out
}

// Snapshot returns the stored lists for the given ids only. Ids never
// fetched map to empty lists; nothing outside ids is exposed, so a stale
// entry for a deselected calendar is never served.
func (s *Store) Snapshot(ids []string) map[string][]event.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]event.Event, len(ids))
	for _, id := range ids {
		list := make([]event.Event, len(s.byCalendar[id]))
		copy(list, s.byCalendar[id])
		out[id] = list
	}
	return out
}

// Drop forgets one calendar's entry. Used when a calendar leaves the
// selection; a later re-select always goes back to the provider.
func (s *Store) Drop(calendarID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byCalendar, calendarID)
}

// DeleteEvent asks the provider to delete, then refetches the one affected
// calendar so provider-side effects (recurring-series collapsing) are picked
// up. On failure the store is untouched and the error is surfaced.
func (s *Store) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := s.provider.DeleteEvent(ctx, calendarID, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.Refresh(ctx, []string{calendarID})
	slog.Info("eventview_event", "event", "event_deleted", "calendar_id", calendarID, "event_id", eventID)
	return nil
}

// Clear discards every entry. Used at session teardown.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCalendar = make(map[string][]event.Event)
}
