package provider

import (
	"context"
	"errors"

	"deadlines/internal/domain/event"
)

// Failure classes for provider calls. Callers discriminate with errors.Is.
var (
	// ErrTransport means the provider was unreachable or the call timed
	// out. Transient: state is left unchanged and the user may retry.
	ErrTransport = errors.New("calendar provider unreachable")
	// ErrRejected means the provider understood the request and refused it
	// (unknown calendar, expired auth). Not retried automatically.
	ErrRejected = errors.New("calendar provider rejected the request")
)

// Client is the calendar-provider surface this service consumes.
type Client interface {
	ListCalendars(ctx context.Context) ([]event.CalendarRef, error)
	// ListEvents returns upcoming events for one calendar: future events
	// only, deleted excluded, recurring instances expanded to single
	// occurrences, ascending by start time, capped at 50.
	ListEvents(ctx context.Context, calendarID string) ([]event.Event, error)
	// InsertEvent creates a single-day all-day event (start date == end date).
	InsertEvent(ctx context.Context, calendarID, summary, date string) (event.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}
