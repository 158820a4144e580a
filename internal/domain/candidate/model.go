package candidate

import (
	"errors"
	"strings"
	"time"
)

// TypeAssignment is the default candidate type when the extraction payload
// carries none.
const TypeAssignment = "assignment"

// DueDateLayout is the calendar-date form candidates carry (YYYY-MM-DD).
const DueDateLayout = "2006-01-02"

// Commit precondition violations. Both are local failures: the candidate is
// retained for correction and no provider call is made.
var (
	ErrMissingDestination = errors.New("candidate has no destination calendar")
	ErrInvalidDueDate     = errors.New("due date is not a valid calendar date")
)

// Candidate is an editable, not-yet-committed assignment derived from
// free-text extraction, or the values a user has since edited it into.
// INVARIANT: ID is stable for the candidate's lifetime; removal after a
// commit is by ID, never by position.
type Candidate struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	DueDate          string `json:"dueDate"`        // YYYY-MM-DD, validated at commit time only
	Time             string `json:"time,omitempty"` // HH:MM, cosmetic
	Type             string `json:"type"`
	IsEditing        bool   `json:"isEditing"`
	ChosenCalendarID string `json:"chosenCalendarId,omitempty"`
}

// New builds a Candidate from one extracted assignment item. A non-empty
// timeOfDay is appended to the title as " (HH:MM)"; the suffix is cosmetic
// and is never parsed back out.
// PRE: id is non-empty
// POST: Type defaults to "assignment" when typ is empty
func New(id, assignment, dueDate, timeOfDay, typ string) Candidate {
	title := assignment
	if timeOfDay != "" {
		title += " (" + timeOfDay + ")"
	}
	if typ == "" {
		typ = TypeAssignment
	}
	return Candidate{
		ID:      id,
		Title:   title,
		DueDate: dueDate,
		Time:    timeOfDay,
		Type:    typ,
	}
}

// Patch carries edits to merge onto a candidate. Empty fields are left
// unchanged. Due-date format is deliberately not checked here; validation is
// deferred to commit time.
type Patch struct {
	Title   string `json:"title"`
	DueDate string `json:"dueDate"`
	Time    string `json:"time"`
	Type    string `json:"type"`
}

// Apply merges p onto c and returns the result.
// POST: fields absent from p keep their previous values
func (c Candidate) Apply(p Patch) Candidate {
	if p.Title != "" {
		c.Title = p.Title
	}
	if p.DueDate != "" {
		c.DueDate = p.DueDate
	}
	if p.Time != "" {
		c.Time = p.Time
	}
	if p.Type != "" {
		c.Type = p.Type
	}
	return c
}

// CommitReady checks the commit preconditions in order: destination first,
// then due-date parseability. First failure wins.
// POST: nil means the candidate may be handed to the provider
func (c Candidate) CommitReady() error {
	if strings.TrimSpace(c.ChosenCalendarID) == "" {
		return ErrMissingDestination
	}
	if _, err := time.Parse(DueDateLayout, c.DueDate); err != nil {
		return ErrInvalidDueDate
	}
	return nil
}
