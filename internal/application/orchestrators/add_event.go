package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"deadlines/internal/adapters/provider"
	"deadlines/internal/application/eventview"
	"deadlines/internal/domain/audit"
	"deadlines/internal/domain/candidate"
	"deadlines/internal/domain/event"
)

// AddEventInput carries the manual add form fields.
type AddEventInput struct {
	CalendarID string
	Title      string
	Date       string // YYYY-MM-DD
	Time       string // optional HH:MM, appended to the title only
}

// AddEventDeps holds dependencies for AddEvent.
type AddEventDeps struct {
	Provider   provider.Client
	Events     *eventview.Store
	AuditStore AuditStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteAddEvent creates a manually authored event. The optional
// time-of-day is cosmetic: it rides along in the summary as " (HH:MM)" and
// the created event stays all-day.
// PRE: Title, CalendarID and Date are non-empty
// POST: event created on the provider; the destination calendar refreshed
func ExecuteAddEvent(ctx context.Context, input AddEventInput, deps AddEventDeps) (event.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return event.Event{}, errors.New("event title is required")
	}
	if input.CalendarID == "" {
		return event.Event{}, errors.New("destination calendar is required")
	}
	if _, err := time.Parse(candidate.DueDateLayout, input.Date); err != nil {
		return event.Event{}, candidate.ErrInvalidDueDate
	}

	summary := title
	if input.Time != "" {
		summary += " (" + input.Time + ")"
	}

	created, err := ExecuteCreateEvent(ctx, CreateEventInput{
		CalendarID: input.CalendarID,
		Summary:    summary,
		Date:       input.Date,
	}, CreateEventDeps{Provider: deps.Provider})
	if err != nil {
		return event.Event{}, err
	}

	deps.Events.Refresh(ctx, []string{input.CalendarID})

	saveAuditRecord(ctx, deps.AuditStore, audit.Record{
		ID:         deps.GenerateID(),
		Source:     audit.SourceManual,
		CalendarID: input.CalendarID,
		EventID:    created.ID,
		Summary:    created.Summary,
		EventDate:  input.Date,
		CreatedAt:  deps.Now(),
	})

	slog.Info("calendar_event", "event", "manual_event_added", "calendar_id", input.CalendarID, "event_id", created.ID)
	return created, nil
}
