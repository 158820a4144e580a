package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"deadlines/internal/domain/event"
)

// NoopClient is an in-memory provider for development without Google
// credentials. It serves one fixed calendar and remembers inserted events
// for the lifetime of the process.
type NoopClient struct {
	mu     sync.Mutex
	seq    int
	events map[string][]event.Event
}

// NewNoopClient creates a new NoopClient.
func NewNoopClient() *NoopClient {
	return &NoopClient{events: make(map[string][]event.Event)}
}

// ListCalendars returns the single development calendar.
// PRE: none
// POST: always succeeds
func (c *NoopClient) ListCalendars(_ context.Context) ([]event.CalendarRef, error) {
	return []event.CalendarRef{
		{ID: "noop-primary", Summary: "Development Calendar", BackgroundColor: "#9fe1e7"},
	}, nil
}

// ListEvents returns whatever has been inserted into the given calendar.
// PRE: none
// POST: always succeeds; unknown calendars list as empty
func (c *NoopClient) ListEvents(_ context.Context, calendarID string) ([]event.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]event.Event, len(c.events[calendarID]))
	copy(out, c.events[calendarID])
	return out, nil
}

// InsertEvent records an all-day event in memory.
// PRE: summary and date are non-empty
// POST: the event is visible to subsequent ListEvents calls
func (c *NoopClient) InsertEvent(_ context.Context, calendarID, summary, date string) (event.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	ev := event.Event{
		ID:      fmt.Sprintf("noop-%d-%d", time.Now().UnixNano(), c.seq),
		Summary: summary,
		Start:   event.Start{Date: date},
	}
	c.events[calendarID] = append(c.events[calendarID], ev)
	slog.Info("noop_insert_event", "calendar_id", calendarID, "summary", summary, "date", date)
	return ev, nil
}

// DeleteEvent removes an event from the in-memory calendar.
// PRE: none
// POST: the event is absent; deleting an unknown event is a rejection
func (c *NoopClient) DeleteEvent(_ context.Context, calendarID, eventID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.events[calendarID]
	for i, ev := range list {
		if ev.ID == eventID {
			c.events[calendarID] = append(list[:i], list[i+1:]...)
			slog.Info("noop_delete_event", "calendar_id", calendarID, "event_id", eventID)
			return nil
		}
	}
	return fmt.Errorf("%w: event %s not found", ErrRejected, eventID)
}
