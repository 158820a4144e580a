package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"deadlines/internal/adapters/provider"
	"deadlines/internal/application/eventview"
	"deadlines/internal/application/pipeline"
	"deadlines/internal/domain/audit"
	"deadlines/internal/domain/event"
)

// AuditStoreForOrchestrator defines the audit surface the commit flows need.
type AuditStoreForOrchestrator interface {
	Save(ctx context.Context, r audit.Record) error
}

// CommitCandidateInput carries input for the commit candidate orchestrator.
type CommitCandidateInput struct {
	Index int
}

// CommitCandidateDeps holds dependencies for CommitCandidate.
type CommitCandidateDeps struct {
	Pipeline   *pipeline.Pipeline
	Provider   provider.Client
	Events     *eventview.Store
	AuditStore AuditStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCommitCandidate turns the candidate at Index into a provider event:
// claim, create, remove by identity, then refresh exactly the destination
// calendar. Local precondition failures (no destination, bad due date, a
// commit already in flight) never reach the provider. Provider failures
// leave the candidate in place unchanged for retry; no other candidate is
// ever affected by this candidate's failure.
// PRE: Index addresses a live candidate (the HTTP boundary guards the range)
// POST: on success the candidate is gone from the working set and the
// destination calendar's events have been refetched
func ExecuteCommitCandidate(ctx context.Context, input CommitCandidateInput, deps CommitCandidateDeps) (event.Event, error) {
	c, err := deps.Pipeline.BeginCommit(input.Index)
	if err != nil {
		return event.Event{}, err
	}

	created, err := ExecuteCreateEvent(ctx, CreateEventInput{
		CalendarID: c.ChosenCalendarID,
		Summary:    c.Title,
		Date:       c.DueDate,
	}, CreateEventDeps{Provider: deps.Provider})
	if err != nil {
		deps.Pipeline.AbortCommit(c.ID)
		return event.Event{}, err
	}

	deps.Pipeline.CompleteCommit(c.ID)
	deps.Events.Refresh(ctx, []string{c.ChosenCalendarID})

	saveAuditRecord(ctx, deps.AuditStore, audit.Record{
		ID:         deps.GenerateID(),
		Source:     audit.SourceExtracted,
		CalendarID: c.ChosenCalendarID,
		EventID:    created.ID,
		Summary:    created.Summary,
		EventDate:  c.DueDate,
		CreatedAt:  deps.Now(),
	})

	slog.Info("pipeline_event", "event", "candidate_committed", "candidate_id", c.ID, "calendar_id", c.ChosenCalendarID, "event_id", created.ID)
	return created, nil
}

// saveAuditRecord persists a commit receipt. The receipt is informational;
// a storage failure is logged and never fails the commit that produced it.
func saveAuditRecord(ctx context.Context, store AuditStoreForOrchestrator, rec audit.Record) {
	if store == nil {
		return
	}
	if err := store.Save(ctx, rec); err != nil {
		slog.Error("audit_save_failed", "error", err.Error(), "event_id", rec.EventID)
	}
}
