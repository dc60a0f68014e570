package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nexusai/internal/persona"
	"nexusai/internal/planner"
	"nexusai/internal/queue"
	"nexusai/internal/respond"
	"nexusai/internal/server"
	"nexusai/internal/store"
)

// serveCmd runs the HTTP API with the job queue and persona catalog.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the demo pipeline over HTTP",
	Long: `Starts the local HTTP API: classification, responses, persona calls,
demo recordings, the plan endpoint, and the job queue. Shuts down cleanly
on SIGINT/SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hot-reload the persona catalog when a catalog file is configured.
	if cfg.Personas.CatalogPath != "" && cfg.Personas.Watch {
		watcher, err := persona.NewWatcher(cfg.Personas.CatalogPath, catalog)
		if err != nil {
			return fmt.Errorf("failed to watch persona catalog: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
		logger.Info("watching persona catalog", zap.String("path", cfg.Personas.CatalogPath))
	}

	q := queue.New(s, cfg.Queue)
	q.Start(ctx)
	defer q.Stop()

	sched := queue.NewScheduler(q)
	defer sched.Stop()

	srv := server.New(cfg.Server, server.Deps{
		Generator: respond.NewGenerator(),
		Personas:  catalog,
		Engine:    persona.NewEngine(),
		Planner:   planner.New(cfg.Planner.MaxSteps),
		Repo:      s,
		JobStore:  s,
		Queue:     q,
		Scheduler: sched,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
