package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/TimurManjosov/govisibility/internal/api"
	"github.com/TimurManjosov/govisibility/internal/audit"
	"github.com/TimurManjosov/govisibility/internal/conditions"
	"github.com/TimurManjosov/govisibility/internal/config"
	"github.com/TimurManjosov/govisibility/internal/snapshot"
	"github.com/TimurManjosov/govisibility/internal/store"
	"github.com/TimurManjosov/govisibility/internal/telemetry"
	"github.com/TimurManjosov/govisibility/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := newLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	st, err := store.NewStore(ctx, cfg.StoreType, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create store")
	}
	defer st.Close()

	telemetry.Init()

	engine := conditions.NewEngine(conditions.DefaultRegistry())
	engine.OnEvaluate = telemetry.ObserveEvaluation

	sources := store.NewMemorySources()

	auditSvc := audit.NewService(audit.NewZerologSink(log), nil, 256, log)
	defer auditSvc.Close()

	hooks := webhook.NewDispatcher(webhook.NewRegistry(), log)
	hooks.Start()
	defer hooks.Close()

	srvAPI := api.NewServer(st, engine, sources.Sources(), cfg.AdminAPIKey, cfg.RateLimitPerIP, log)
	srvAPI.Audit = auditSvc
	srvAPI.Hooks = hooks
	if err := srvAPI.RebuildSnapshot(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to build initial snapshot")
	}
	snap := snapshot.Load()
	log.Info().Int("rule_sets", len(snap.RuleSets)).Str("etag", snap.ETag).Msg("snapshot ready")

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      otelhttp.NewHandler(srvAPI.Router(), "visibility-http"),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	metricsSrv := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.Handler(),
	}
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShut)
	_ = metricsSrv.Shutdown(ctxShut)
	log.Info().Msg("stopped")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
