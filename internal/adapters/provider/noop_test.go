package provider

import (
	"context"
	"errors"
	"testing"
)

// TestNoopClient_InsertListDelete exercises the in-memory provider round
// trip.
func TestNoopClient_InsertListDelete(t *testing.T) {
	c := NewNoopClient()
	ctx := context.Background()

	calendars, err := c.ListCalendars(ctx)
	if err != nil {
		t.Fatalf("ListCalendars: %v", err)
	}
	if len(calendars) != 1 || calendars[0].ID != "noop-primary" {
		t.Fatalf("unexpected calendars: %+v", calendars)
	}

	created, err := c.InsertEvent(ctx, "noop-primary", "Essay (14:00)", "2025-03-01")
	if err != nil {
		t.Fatalf("InsertEvent: %v", err)
	}
	if created.Summary != "Essay (14:00)" || !created.Start.IsAllDay() {
		t.Errorf("unexpected event: %+v", created)
	}

	events, err := c.ListEvents(ctx, "noop-primary")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 || events[0].ID != created.ID {
		t.Fatalf("unexpected events: %+v", events)
	}

	if err := c.DeleteEvent(ctx, "noop-primary", created.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	events, _ = c.ListEvents(ctx, "noop-primary")
	if len(events) != 0 {
		t.Errorf("expected empty calendar, got %+v", events)
	}
}

// TestNoopClient_DeleteUnknown verifies deleting a missing event is a
// rejection, not a transport failure.
func TestNoopClient_DeleteUnknown(t *testing.T) {
	c := NewNoopClient()
	err := c.DeleteEvent(context.Background(), "noop-primary", "missing")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}
