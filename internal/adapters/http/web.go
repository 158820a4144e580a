package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"deadlines/internal/adapters/http/middleware"
	"deadlines/internal/adapters/provider"
	auditStore "deadlines/internal/adapters/storage/audit"
	selectionStore "deadlines/internal/adapters/storage/selection"
	"deadlines/internal/application/session"
)

// App bundles the session state and adapters the handlers work against.
type App struct {
	Session        *session.Session
	Provider       provider.Client
	AuditStore     auditStore.Store
	SelectionStore selectionStore.Store
	GenerateID     func() string
	Now            func() time.Time
}

// Global app instance (set by NewMux)
var app *App

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// loadCSRFKey decodes the configured CSRF secret (hex-encoded, 32 bytes).
// In production the key MUST be set. In development a random key is
// generated per startup.
func loadCSRFKey(keyHex, env string) []byte {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("DEADLINES_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if env == "production" {
		log.Fatal("DEADLINES_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key. Set DEADLINES_CSRF_KEY for production.")
	return key
}

// NewMux wires routes and middleware around the given app state.
// PRE: a is fully populated
// POST: returns the root handler ready for ListenAndServe
func NewMux(a *App, csrfKeyHex, env string) http.Handler {
	app = a

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)

	mux.HandleFunc("/api/calendars", handleListCalendars)
	mux.HandleFunc("/api/selection", handleSelection)
	mux.HandleFunc("/api/selection/remove", handleSelectionRemove)
	mux.HandleFunc("/api/events", handleEvents)
	mux.HandleFunc("/api/events/delete", handleEventDelete)

	mux.HandleFunc("/api/extract", handleExtract)
	mux.HandleFunc("/api/candidates", handleCandidates)
	mux.HandleFunc("/api/candidates/edit", handleCandidateEdit)
	mux.HandleFunc("/api/candidates/toggle", handleCandidateToggle)
	mux.HandleFunc("/api/candidates/destination", handleCandidateDestination)
	mux.HandleFunc("/api/candidates/remove", handleCandidateRemove)
	mux.HandleFunc("/api/candidates/commit", handleCandidateCommit)

	mux.HandleFunc("/api/audit", handleAuditLog)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	return middleware.Chain(mux,
		middleware.CSRF(loadCSRFKey(csrfKeyHex, env)),
		middleware.RateLimit(limiter),
		middleware.SecurityHeaders,
		middleware.RequestLog,
	)
}

// handleHealth responds to load balancer / uptime checks.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
