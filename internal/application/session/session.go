package session

import (
	"context"
	"log/slog"

	"deadlines/internal/adapters/extractor"
	"deadlines/internal/adapters/provider"
	"deadlines/internal/application/eventview"
	"deadlines/internal/application/pipeline"
)

// Deps holds the collaborators a session is built on.
type Deps struct {
	Extractor  extractor.Extractor
	Provider   provider.Client
	GenerateID func() string
}

// Session bundles the per-run working state: the candidate pipeline, the
// event view and the calendar selection. Each piece is mutated only by its
// owning component; the session is the single construction and teardown
// boundary for all three.
type Session struct {
	Pipeline  *pipeline.Pipeline
	Events    *eventview.Store
	Selection *eventview.Selection
}

// New assembles a fresh session with empty state.
func New(deps Deps) *Session {
	return &Session{
		Pipeline: pipeline.New(pipeline.Deps{
			Extractor:  deps.Extractor,
			GenerateID: deps.GenerateID,
		}),
		Events:    eventview.NewStore(deps.Provider),
		Selection: eventview.NewSelection(),
	}
}

// Restore seeds the selection from a previously saved id list and performs
// the mandatory fresh fetch; saved state never substitutes for a provider
// round trip.
func (s *Session) Restore(ctx context.Context, ids []string) {
	s.Selection.Replace(ids)
	restored := s.Selection.IDs()
	if len(restored) > 0 {
		s.Events.Refresh(ctx, restored)
	}
	slog.Info("session_event", "event", "selection_restored", "calendars", len(restored))
}

// Reset discards all working state: candidates, events and selection.
func (s *Session) Reset() {
	s.Pipeline.Reset()
	s.Events.Clear()
	s.Selection.Replace(nil)
}
