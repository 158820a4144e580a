package orchestrators

import (
	"context"
	"log/slog"

	"deadlines/internal/adapters/provider"
	"deadlines/internal/domain/event"
)

// CreateEventInput carries the fields of the provider event to create. The
// product's events are always single-day and all-day: the date becomes both
// the start and end bound.
type CreateEventInput struct {
	CalendarID string
	Summary    string
	Date       string // YYYY-MM-DD
}

// CreateEventDeps holds dependencies for ExecuteCreateEvent.
type CreateEventDeps struct {
	Provider provider.Client
}

// ExecuteCreateEvent submits one all-day event to the provider. It never
// touches the event view; refreshing after a create is the caller's job, so
// the dependency arrow points at the provider only.
// PRE: CalendarID, Summary and Date are non-empty; Date parses as YYYY-MM-DD
// POST: on success the created provider event is returned
func ExecuteCreateEvent(ctx context.Context, input CreateEventInput, deps CreateEventDeps) (event.Event, error) {
	created, err := deps.Provider.InsertEvent(ctx, input.CalendarID, input.Summary, input.Date)
	if err != nil {
		slog.Error("create_event_failed", "calendar_id", input.CalendarID, "error", err.Error())
		return event.Event{}, err
	}

	slog.Info("calendar_event", "event", "event_created", "calendar_id", input.CalendarID, "event_id", created.ID, "date", input.Date)
	return created, nil
}
