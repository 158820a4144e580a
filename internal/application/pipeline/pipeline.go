package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"deadlines/internal/adapters/extractor"
	"deadlines/internal/domain/candidate"
)

// ErrCommitInFlight rejects a second commit for a candidate whose first
// commit has not finished. At most one in-flight commit per candidate; a
// double-click must never issue two create calls for one candidate.
var ErrCommitInFlight = errors.New("commit already in flight for this candidate")

// Deps holds pipeline dependencies.
type Deps struct {
	Extractor  extractor.Extractor
	GenerateID func() string
}

// Pipeline owns the candidate working set between extraction and commit.
// Candidates are exclusively owned here until a commit succeeds, at which
// point the local candidate is destroyed and the provider owns the event.
// All methods are safe for concurrent use.
type Pipeline struct {
	mu       sync.Mutex
	deps     Deps
	list     candidate.Worklist
	inflight map[string]struct{} // candidate ID -> commit in flight
}

// New creates an empty pipeline.
// PRE: deps.Extractor and deps.GenerateID are non-nil
// POST: the working set is empty
func New(deps Deps) *Pipeline {
	return &Pipeline{
		deps:     deps,
		inflight: make(map[string]struct{}),
	}
}

// Extract runs the extraction collaborator over rawText and replaces the
// working set wholesale with the result; unacted-on candidates from a
// previous extraction are discarded. Empty or whitespace-only input is a
// no-op: no call is made and the current set is returned unchanged. On
// collaborator failure the set is also left untouched; results are never
// partially applied.
func (p *Pipeline) Extract(ctx context.Context, rawText string) ([]candidate.Candidate, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return p.Candidates(), nil
	}

	items, err := p.deps.Extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract assignments: %w", err)
	}

	fresh := make([]candidate.Candidate, 0, len(items))
	for _, item := range items {
		fresh = append(fresh, candidate.New(p.deps.GenerateID(), item.Assignment, item.DueDate, item.Time, item.Type))
	}

	p.mu.Lock()
	p.list.Replace(fresh)
	p.mu.Unlock()

	slog.Info("pipeline_event", "event", "extracted", "candidates", len(fresh))
	return fresh, nil
}

// Candidates returns a snapshot of the working set in order.
func (p *Pipeline) Candidates() []candidate.Candidate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list.Items()
}

// Len returns the number of candidates in the working set.
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list.Len()
}

// Edit merges patch onto the candidate at index. Due-date format is not
// validated here; commit is where validation happens.
func (p *Pipeline) Edit(index int, patch candidate.Patch) (candidate.Candidate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list.Edit(index, patch)
}

// ToggleEditing flips the editing flag at index.
func (p *Pipeline) ToggleEditing(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list.ToggleEditing(index)
}

// SetDestination records the destination calendar for the candidate at
// index. The id is not cross-checked against any selection; a user may
// target a calendar they have not added to the view.
func (p *Pipeline) SetDestination(index int, calendarID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list.SetDestination(index, calendarID)
}

// Remove drops the candidate at index. Irreversible, no confirmation.
func (p *Pipeline) Remove(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list.Remove(index)
}

// BeginCommit claims the candidate at index for a commit attempt. An
// in-flight commit for the same candidate is rejected first, then the
// commit preconditions run in order: missing destination, then unparseable
// due date. None of these failures reach the network.
// POST: on success the candidate is marked in flight and the caller must
// finish with CompleteCommit or AbortCommit
func (p *Pipeline) BeginCommit(index int) (candidate.Candidate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.list.Get(index)
	if err != nil {
		return candidate.Candidate{}, err
	}
	if _, busy := p.inflight[c.ID]; busy {
		return candidate.Candidate{}, ErrCommitInFlight
	}
	if err := c.CommitReady(); err != nil {
		return candidate.Candidate{}, err
	}

	p.inflight[c.ID] = struct{}{}
	return c, nil
}

// CompleteCommit destroys the committed candidate and releases its claim.
// Removal is by identity, not index: the list may have shifted while the
// provider call was running.
func (p *Pipeline) CompleteCommit(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, id)
	p.list.RemoveByID(id)
}

// AbortCommit releases the claim and keeps the candidate unchanged for
// correction and retry.
func (p *Pipeline) AbortCommit(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, id)
}

// Reset discards the working set and any in-flight claims. Used at session
// teardown.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.list.Replace(nil)
	p.inflight = make(map[string]struct{})
}
