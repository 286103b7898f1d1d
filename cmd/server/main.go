// Command server runs the QUMO reducer and settlement HTTP API: it wires
// configuration, storage, the solver backend, the background job queue,
// and the cron-driven retry/prune scheduler, then serves until it
// receives SIGINT or SIGTERM.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aristath/qumo-reducer/internal/config"
	"github.com/aristath/qumo-reducer/internal/events"
	"github.com/aristath/qumo-reducer/internal/queue"
	"github.com/aristath/qumo-reducer/internal/scheduler"
	"github.com/aristath/qumo-reducer/internal/server"
	"github.com/aristath/qumo-reducer/internal/solver"
	"github.com/aristath/qumo-reducer/internal/solver/highs"
	"github.com/aristath/qumo-reducer/internal/solver/reference"
	"github.com/aristath/qumo-reducer/internal/store"
	"github.com/aristath/qumo-reducer/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})
	log.Info().Msg("starting qumo-reducer server")

	db, err := store.Open(cfg.StorePath())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer db.Close()

	var backend solver.Backend
	switch cfg.SolverBackend {
	case "highs":
		backend = highs.New()
	default:
		backend = reference.New()
	}
	log.Info().Str("backend", cfg.SolverBackend).Msg("solver backend selected")

	history := queue.NewHistory(db.Conn())
	manager := queue.NewManager(queue.NewMemoryQueue(), history)
	registry := queue.NewRegistry()
	scheduler.RegisterHandlers(registry, db, backend, cfg.StoreRetention, log)

	pool := queue.NewWorkerPool(manager, registry, 4)
	pool.SetLogger(log)
	pool.Start()
	log.Info().Msg("worker pool started")

	sched := scheduler.New(manager, cfg.SchedulerInterval, cfg.StoreRetention, log)
	if err := sched.Start(cfg.SchedulerInterval); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	eventBus := events.NewBus(log)
	eventMgr := events.NewManager(eventBus, log)

	handler := server.NewHandler(backend, db, cfg, eventMgr, log)
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	handler.RegisterRoutes(r)

	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	sched.Stop()
	pool.Stop()
	log.Info().Msg("shutdown complete")
}
