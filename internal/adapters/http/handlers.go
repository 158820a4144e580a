package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"deadlines/internal/adapters/extractor"
	"deadlines/internal/adapters/provider"
	"deadlines/internal/application/orchestrators"
	"deadlines/internal/application/pipeline"
	"deadlines/internal/domain/candidate"
	"deadlines/internal/domain/event"
)

// eventView is one event as rendered to the client: the raw start union
// plus a display string discriminated on it.
type eventView struct {
	ID      string      `json:"id"`
	Summary string      `json:"summary"`
	Start   event.Start `json:"start"`
	Display string      `json:"display"`
}

func toEventViews(events []event.Event) []eventView {
	views := make([]eventView, 0, len(events))
	for _, ev := range events {
		views = append(views, eventView{
			ID:      ev.ID,
			Summary: ev.Summary,
			Start:   ev.Start,
			Display: ev.FormatStart(),
		})
	}
	return views
}

func toEventViewMap(byCalendar map[string][]event.Event) map[string][]eventView {
	out := make(map[string][]eventView, len(byCalendar))
	for id, events := range byCalendar {
		out[id] = toEventViews(events)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "malformed JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// statusFor maps the error taxonomy onto HTTP statuses. Local validation is
// the client's to fix; provider rejections and transport failures are
// upstream conditions.
func statusFor(err error) int {
	switch {
	case errors.Is(err, candidate.ErrMissingDestination),
		errors.Is(err, candidate.ErrInvalidDueDate):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrCommitInFlight):
		return http.StatusConflict
	case errors.Is(err, extractor.ErrFailed),
		errors.Is(err, provider.ErrRejected):
		return http.StatusBadGateway
	case errors.Is(err, provider.ErrTransport):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// requireCandidateIndex validates the index against the current working set.
// Out-of-range indexes are rejected here, at the UI boundary.
func requireCandidateIndex(w http.ResponseWriter, index int) bool {
	if index < 0 || index >= app.Session.Pipeline.Len() {
		http.Error(w, "candidate index out of range", http.StatusBadRequest)
		return false
	}
	return true
}

// --- Calendars and selection ---

// handleListCalendars handles GET /api/calendars.
func handleListCalendars(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	calendars, err := app.Provider.ListCalendars(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"calendars": calendars})
}

// handleSelection handles GET and POST /api/selection.
// POST adds one calendar to the view and immediately fetches its events;
// re-selecting a previously dropped calendar always refetches, never serves
// stale data.
func handleSelection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"selection": app.Session.Selection.IDs()})
	case http.MethodPost:
		var req struct {
			CalendarID string `json:"calendarId"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		if req.CalendarID == "" {
			http.Error(w, "calendarId is required", http.StatusBadRequest)
			return
		}
		if app.Session.Selection.Add(req.CalendarID) {
			app.Session.Events.Refresh(r.Context(), []string{req.CalendarID})
			persistSelection(r)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"selection": app.Session.Selection.IDs(),
			"events":    toEventViewMap(app.Session.Events.Snapshot(app.Session.Selection.IDs())),
		})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSelectionRemove handles POST /api/selection/remove.
func handleSelectionRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		CalendarID string `json:"calendarId"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if app.Session.Selection.Remove(req.CalendarID) {
		app.Session.Events.Drop(req.CalendarID)
		if app.Session.Selection.Len() == 0 {
			app.Session.Events.Refresh(r.Context(), nil)
		}
		persistSelection(r)
	}
	writeJSON(w, http.StatusOK, map[string]any{"selection": app.Session.Selection.IDs()})
}

// persistSelection saves the current selection so the next run can restore
// it. Persistence is best-effort; a failure never breaks the view.
func persistSelection(r *http.Request) {
	if app.SelectionStore == nil {
		return
	}
	if err := app.SelectionStore.Save(r.Context(), app.Session.Selection.IDs()); err != nil {
		slog.Error("selection_save_failed", "error", err.Error())
	}
}

// --- Events ---

// handleEvents handles GET /api/events (the aggregated view over the
// current selection) and POST /api/events (manual add).
func handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ids := app.Session.Selection.IDs()
		writeJSON(w, http.StatusOK, map[string]any{
			"events": toEventViewMap(app.Session.Events.Snapshot(ids)),
		})
	case http.MethodPost:
		var req struct {
			CalendarID string `json:"calendarId"`
			Title      string `json:"title"`
			Date       string `json:"date"`
			Time       string `json:"time"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		created, err := orchestrators.ExecuteAddEvent(r.Context(), orchestrators.AddEventInput{
			CalendarID: req.CalendarID,
			Title:      req.Title,
			Date:       req.Date,
			Time:       req.Time,
		}, orchestrators.AddEventDeps{
			Provider:   app.Provider,
			Events:     app.Session.Events,
			AuditStore: app.AuditStore,
			GenerateID: app.GenerateID,
			Now:        app.Now,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"event": toEventViews([]event.Event{created})[0]})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleEventDelete handles POST /api/events/delete.
func handleEventDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		CalendarID string `json:"calendarId"`
		EventID    string `json:"eventId"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.CalendarID == "" || req.EventID == "" {
		http.Error(w, "calendarId and eventId are required", http.StatusBadRequest)
		return
	}
	if err := app.Session.Events.DeleteEvent(r.Context(), req.CalendarID, req.EventID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": toEventViews(app.Session.Events.Events(req.CalendarID)),
	})
}

// --- Extraction pipeline ---

// handleExtract handles POST /api/extract.
func handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	candidates, err := app.Session.Pipeline.Extract(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": candidates})
}

// handleCandidates handles GET /api/candidates.
func handleCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": app.Session.Pipeline.Candidates()})
}

// handleCandidateEdit handles POST /api/candidates/edit.
func handleCandidateEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Index int             `json:"index"`
		Patch candidate.Patch `json:"patch"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if !requireCandidateIndex(w, req.Index) {
		return
	}
	updated, err := app.Session.Pipeline.Edit(req.Index, req.Patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidate": updated})
}

// handleCandidateToggle handles POST /api/candidates/toggle.
func handleCandidateToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Index int `json:"index"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if !requireCandidateIndex(w, req.Index) {
		return
	}
	if err := app.Session.Pipeline.ToggleEditing(req.Index); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": app.Session.Pipeline.Candidates()})
}

// handleCandidateDestination handles POST /api/candidates/destination.
func handleCandidateDestination(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Index      int    `json:"index"`
		CalendarID string `json:"calendarId"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if !requireCandidateIndex(w, req.Index) {
		return
	}
	if err := app.Session.Pipeline.SetDestination(req.Index, req.CalendarID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": app.Session.Pipeline.Candidates()})
}

// handleCandidateRemove handles POST /api/candidates/remove.
func handleCandidateRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Index int `json:"index"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if !requireCandidateIndex(w, req.Index) {
		return
	}
	if err := app.Session.Pipeline.Remove(req.Index); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": app.Session.Pipeline.Candidates()})
}

// handleCandidateCommit handles POST /api/candidates/commit.
func handleCandidateCommit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Index int `json:"index"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if !requireCandidateIndex(w, req.Index) {
		return
	}
	created, err := orchestrators.ExecuteCommitCandidate(r.Context(), orchestrators.CommitCandidateInput{
		Index: req.Index,
	}, orchestrators.CommitCandidateDeps{
		Pipeline:   app.Session.Pipeline,
		Provider:   app.Provider,
		Events:     app.Session.Events,
		AuditStore: app.AuditStore,
		GenerateID: app.GenerateID,
		Now:        app.Now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"event":      toEventViews([]event.Event{created})[0],
		"candidates": app.Session.Pipeline.Candidates(),
	})
}

// --- Audit ---

// handleAuditLog handles GET /api/audit: the newest commit receipts.
func handleAuditLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	records, err := app.AuditStore.ListRecent(r.Context(), 50)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}
