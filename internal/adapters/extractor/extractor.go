package extractor

import (
	"context"
	"errors"
)

// ErrFailed means the extraction endpoint answered with a non-success
// status. The candidate working set is left untouched when this happens.
var ErrFailed = errors.New("extraction service returned failure")

// Item is one detected assignment in the extraction service's response.
type Item struct {
	Assignment string `json:"assignment"`
	DueDate    string `json:"due_date"`
	Time       string `json:"time,omitempty"`
	Type       string `json:"type,omitempty"`
}

// Extractor turns free-form assignment text (syllabi, assignment lists) into
// structured items. The NLP behind it is an opaque external collaborator.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]Item, error)
}
