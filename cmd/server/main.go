package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/campushq/portal/internal/config"
	httpserver "github.com/campushq/portal/internal/http"
	"github.com/campushq/portal/internal/logging"
	"github.com/campushq/portal/internal/queries"
	"github.com/campushq/portal/internal/session"
	"github.com/campushq/portal/internal/ui"
	"github.com/campushq/portal/internal/upstream"
)

func main() {
	// Missing .env is fine; production deployments use real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.Init(cfg.Env)
	if err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := upstream.New(cfg.Upstream.URL, cfg.Upstream.Timeout)
	cache := queries.New(cfg.Cache.TTL)

	sessions := session.NewManager(cfg)
	resolver := session.NewResolver(client, cache)
	gate := session.NewGate(sessions, resolver)

	uiHandler := ui.NewHandler(cfg, client, cache, sessions, resolver)
	r := httpserver.NewRouter(cfg, logger, client, gate, uiHandler)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("upstream", cfg.Upstream.URL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
