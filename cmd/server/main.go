package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "modernc.org/sqlite"

	"github.com/google/uuid"

	"deadlines/internal/adapters/extractor"
	web "deadlines/internal/adapters/http"
	"deadlines/internal/adapters/provider"
	"deadlines/internal/adapters/storage"
	auditStore "deadlines/internal/adapters/storage/audit"
	selectionStore "deadlines/internal/adapters/storage/selection"
	"deadlines/internal/application/session"
	"deadlines/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	timedDB := storage.NewTimedDB(db, storage.DefaultSlowQueryThreshold)

	selStore := selectionStore.NewSQLiteStore(timedDB)
	audStore := auditStore.NewSQLiteStore(timedDB)

	// Calendar provider: Google when credentials are configured, otherwise
	// an in-memory calendar for development.
	var providerClient provider.Client
	if cfg.UseNoopProvider {
		providerClient = provider.NewNoopClient()
		log.Println("Calendar provider configured (noop — in-memory)")
	} else {
		googleClient, err := provider.NewGoogleClient(ctx, cfg.CredentialsPath, cfg.TokenPath, cfg.ProviderTimeout)
		if err != nil {
			if cfg.Env == "production" {
				log.Fatalf("failed to create Google Calendar client: %v", err)
			}
			log.Printf("WARNING: Google Calendar unavailable (%v) — using noop provider", err)
			providerClient = provider.NewNoopClient()
		} else {
			providerClient = googleClient
			log.Println("Calendar provider configured (Google)")
		}
	}

	extractorClient := extractor.NewHTTPExtractor(cfg.ExtractorURL, cfg.ProviderTimeout)

	// Session-scoped state: one working set for this single-user server,
	// created here and discarded when the process exits.
	sess := session.New(session.Deps{
		Extractor:  extractorClient,
		Provider:   providerClient,
		GenerateID: uuid.NewString,
	})
	if saved, err := selStore.Load(ctx); err != nil {
		log.Printf("WARNING: could not load saved selection: %v", err)
	} else if len(saved) > 0 {
		sess.Restore(ctx, saved)
	}

	web.RateLimitPerSecond = cfg.RateLimitPerSec
	mux := web.NewMux(&web.App{
		Session:        sess,
		Provider:       providerClient,
		AuditStore:     audStore,
		SelectionStore: selStore,
		GenerateID:     uuid.NewString,
		Now:            time.Now,
	}, cfg.CSRFKeyHex, cfg.Env)

	log.Printf("deadlines %s starting on %s (env=%s)", version, cfg.Listen, cfg.Env)
	if err := http.ListenAndServe(cfg.Listen, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
