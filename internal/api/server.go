// Package api exposes the HTTP management and evaluation surface: rule-set
// CRUD, category introspection, document validation, and visibility
// evaluation.
package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/govisibility/internal/audit"
	"github.com/TimurManjosov/govisibility/internal/conditions"
	"github.com/TimurManjosov/govisibility/internal/snapshot"
	"github.com/TimurManjosov/govisibility/internal/store"
	"github.com/TimurManjosov/govisibility/internal/telemetry"
	"github.com/TimurManjosov/govisibility/internal/webhook"
)

type Server struct {
	store       store.Store
	engine      *conditions.Engine
	sources     conditions.Sources
	adminAPIKey string
	rateLimit   int
	log         zerolog.Logger

	// Audit and Hooks are optional collaborators; set them before Router.
	Audit *audit.Service
	Hooks *webhook.Dispatcher
}

func NewServer(st store.Store, engine *conditions.Engine, sources conditions.Sources, adminKey string, rateLimit int, log zerolog.Logger) *Server {
	if rateLimit <= 0 {
		rateLimit = 100
	}
	return &Server{store: st, engine: engine, sources: sources, adminAPIKey: adminKey, rateLimit: rateLimit, log: log}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(telemetry.Middleware)
	r.Use(s.requestLogger)
	r.Use(httprate.LimitByIP(s.rateLimit, time.Minute))

	// long-lived change stream, registered outside the request timeout
	r.Get("/v1/rulesets/events", s.handleEvents)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(5 * time.Second))

		// health
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})

		// public: category introspection and document validation
		r.Get("/v1/conditions/types", s.handleListTypes)
		r.Get("/v1/conditions/types/{key}/rules", s.handleListRules)
		r.Post("/v1/conditions/validate", s.handleValidate)

		// public: published snapshot (ETag)
		r.Get("/v1/rulesets/snapshot", s.handleSnapshot)

		// public: evaluation
		r.Post("/v1/evaluate", s.handleEvaluate)

		// admin (protected): rule-set CRUD
		r.Get("/v1/rulesets", s.authAdmin(s.handleListRuleSets))
		r.Get("/v1/rulesets/{id}", s.authAdmin(s.handleGetRuleSet))
		r.Post("/v1/rulesets", s.authAdmin(s.handleUpsertRuleSet))
		r.Delete("/v1/rulesets/{id}", s.authAdmin(s.handleDeleteRuleSet))

		// admin (protected): webhook subscriptions
		if s.Hooks != nil {
			r.Get("/v1/webhooks", s.authAdmin(s.handleListWebhooks))
			r.Post("/v1/webhooks", s.authAdmin(s.handleCreateWebhook))
			r.Delete("/v1/webhooks/{id}", s.authAdmin(s.handleDeleteWebhook))
		}
	})

	return r
}

// RebuildSnapshot loads published rule sets and swaps the atomic snapshot.
func (s *Server) RebuildSnapshot(ctx context.Context) error {
	rows, err := s.store.List(ctx, "")
	if err != nil {
		return err
	}
	snap := snapshot.Build(rows)
	snapshot.Update(snap)
	telemetry.SnapshotRuleSets.Set(float64(len(snap.RuleSets)))
	return nil
}

// ---- middleware & helpers ----

func (s *Server) authAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		got := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
		if got == "" {
			UnauthorizedError(w, r, "missing bearer token")
			return
		}
		// constant-time compare
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.adminAPIKey)) != 1 {
			ForbiddenError(w, r, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
