package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"deadlines/internal/domain/event"
)

// maxListResults caps a single calendar listing.
const maxListResults = 50

// GoogleClient implements Client against the Google Calendar API.
type GoogleClient struct {
	service *calendar.Service
	timeout time.Duration
	now     func() time.Time
}

// NewGoogleClient builds an authenticated client from an OAuth client-secret
// file and a previously saved token file. Token acquisition itself happens
// outside this service; a missing or unreadable token is an error here.
// PRE: credentialsPath and tokenPath point at readable JSON files
// POST: returns a client whose every call carries the given timeout
func NewGoogleClient(ctx context.Context, credentialsPath, tokenPath string, timeout time.Duration) (*GoogleClient, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	config, err := google.ConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	token, err := tokenFromFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	service, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &GoogleClient{service: service, timeout: timeout, now: time.Now}, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// ListCalendars lists the calendars on the user's calendar list.
func (c *GoogleClient) ListCalendars(ctx context.Context) ([]event.CalendarRef, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}
	refs := make([]event.CalendarRef, 0, len(res.Items))
	for _, item := range res.Items {
		refs = append(refs, event.CalendarRef{
			ID:              item.Id,
			Summary:         item.Summary,
			BackgroundColor: item.BackgroundColor,
		})
	}
	return refs, nil
}

// ListEvents lists upcoming events for one calendar with the fixed listing
// parameters: future only, no deleted events, recurring instances expanded,
// ordered by start time, at most 50 results.
func (c *GoogleClient) ListEvents(ctx context.Context, calendarID string) ([]event.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.service.Events.List(calendarID).
		TimeMin(c.now().Format(time.RFC3339)).
		ShowDeleted(false).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxListResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err)
	}
	events := make([]event.Event, 0, len(res.Items))
	for _, item := range res.Items {
		events = append(events, fromGoogleEvent(item))
	}
	return events, nil
}

// InsertEvent creates an all-day single-day event. Any time-of-day the
// product tracks stays in the summary text; the event itself is never timed.
func (c *GoogleClient) InsertEvent(ctx context.Context, calendarID, summary, date string) (event.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	created, err := c.service.Events.Insert(calendarID, &calendar.Event{
		Summary: summary,
		Start:   &calendar.EventDateTime{Date: date},
		End:     &calendar.EventDateTime{Date: date},
	}).Context(ctx).Do()
	if err != nil {
		return event.Event{}, classify(err)
	}
	return fromGoogleEvent(created), nil
}

// DeleteEvent removes one event from one calendar.
func (c *GoogleClient) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.service.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return classify(err)
	}
	return nil
}

func fromGoogleEvent(item *calendar.Event) event.Event {
	ev := event.Event{ID: item.Id, Summary: item.Summary}
	if item.Start != nil {
		ev.Start = event.Start{Date: item.Start.Date, DateTime: item.Start.DateTime}
	}
	return ev
}

// classify maps Google API failures onto the provider error classes. An HTTP
// status from the provider means the request arrived and was refused;
// anything else (DNS, TLS, timeout) is transport.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		slog.Warn("provider_rejected", "status", apiErr.Code, "message", apiErr.Message)
		return fmt.Errorf("%w: %s", ErrRejected, apiErr.Message)
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}
