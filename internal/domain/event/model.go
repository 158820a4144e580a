package event

import "time"

// DateLayout is the all-day date form used by the provider (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// CalendarRef identifies one provider-side calendar.
type CalendarRef struct {
	ID              string `json:"id"`
	Summary         string `json:"summary"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// Start is the provider's start union: exactly one of Date (all-day,
// YYYY-MM-DD) or DateTime (RFC3339) is set.
type Start struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
}

// IsAllDay reports whether the start carries a bare date.
func (s Start) IsAllDay() bool {
	return s.Date != "" && s.DateTime == ""
}

// Event is the unit returned by calendar listing.
type Event struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Start   Start  `json:"start"`
}

// FormatStart renders the start for display, discriminating on the union:
// timed events get full date and time in the event's own offset; all-day
// events get the date only, parsed as a plain calendar date so the rendered
// day never shifts to the previous day the way UTC-midnight parsing would.
func (e Event) FormatStart() string {
	if e.Start.DateTime != "" {
		t, err := time.Parse(time.RFC3339, e.Start.DateTime)
		if err != nil {
			return e.Start.DateTime
		}
		return t.Format("Mon, 02 Jan 2006 15:04")
	}
	if e.Start.Date != "" {
		t, err := time.ParseInLocation(DateLayout, e.Start.Date, time.Local)
		if err != nil {
			return e.Start.Date
		}
		return t.Format("Mon, 02 Jan 2006")
	}
	return ""
}
