package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trailimage/storyfmt/internal/api"
	"github.com/trailimage/storyfmt/internal/cache"
	"github.com/trailimage/storyfmt/internal/config"
	"github.com/trailimage/storyfmt/internal/pipeline"
	"github.com/trailimage/storyfmt/internal/stats"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	formatter, err := cfg.Formatter()
	if err != nil {
		log.Error("formatter setup failed", "error", err)
		os.Exit(1)
	}

	var renderCache *cache.Cache
	if cfg.CachePath != "" {
		renderCache, err = cache.Open(cfg.CachePath)
		if err != nil {
			log.Error("cache setup failed", "error", err)
			os.Exit(1)
		}
		n, err := renderCache.Len()
		if err != nil {
			log.Error("cache read failed", "error", err)
			os.Exit(1)
		}
		log.Info("render cache opened", "path", cfg.CachePath, "entries", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize pipeline.
	renderer := pipeline.NewRenderer(formatter, renderCache, stats.New(cfg.StatsWindow), log)
	orch := pipeline.NewOrchestrator(cfg, renderer, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()

		if renderCache != nil {
			if err := renderCache.Close(); err != nil {
				log.Error("cache close failed", "error", err)
			}
		}
	}()

	log.Info("starting storyfmt", "port", cfg.Port, "typography", cfg.Typography, "cache", cfg.CachePath != "")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
