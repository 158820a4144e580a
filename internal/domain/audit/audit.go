package audit

import (
	"errors"
	"time"
)

// Source of a recorded event creation.
const (
	SourceExtracted = "extracted" // committed candidate from the extraction pipeline
	SourceManual    = "manual"    // manually authored event
)

// Record is one provider-side event creation, kept locally so the user can
// see what this tool has written into their calendars. The provider stays
// authoritative for the event itself; records are never updated afterwards.
type Record struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	CalendarID string    `json:"calendar_id"`
	EventID    string    `json:"event_id"`
	Summary    string    `json:"summary"`
	EventDate  string    `json:"event_date"` // YYYY-MM-DD
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks the record's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (r *Record) Validate() error {
	if r.ID == "" {
		return errors.New("audit record ID cannot be empty")
	}
	if r.Source != SourceExtracted && r.Source != SourceManual {
		return errors.New("audit record source must be 'extracted' or 'manual'")
	}
	if r.CalendarID == "" {
		return errors.New("audit record calendar ID cannot be empty")
	}
	if r.EventID == "" {
		return errors.New("audit record event ID cannot be empty")
	}
	if r.Summary == "" {
		return errors.New("audit record summary cannot be empty")
	}
	if _, err := time.Parse("2006-01-02", r.EventDate); err != nil {
		return errors.New("audit record event date must be YYYY-MM-DD")
	}
	return nil
}
