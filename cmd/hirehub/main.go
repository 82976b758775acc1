package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpAdapter "github.com/wadeedkhan1/HireHub-sub000/internal/adapter/http"
	"github.com/wadeedkhan1/HireHub-sub000/internal/adapter/sqlite"
	"github.com/wadeedkhan1/HireHub-sub000/internal/config"
	"github.com/wadeedkhan1/HireHub-sub000/internal/domain"
	"github.com/wadeedkhan1/HireHub-sub000/internal/worker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log.Printf("starting hirehub on port %d", cfg.Port)
	log.Printf("database: %s", cfg.DBPath)

	repo, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer repo.Close()

	lifecycle := domain.NewLifecycleService(repo)
	dashboard := domain.NewDashboardService(repo, cfg.RecentLimit)
	jobs := domain.NewJobService(repo)

	// Repair counter drift left over from a previous crash
	rec := worker.New(repo, cfg.ReconcileInterval)
	rec.Reconcile(context.Background())

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := httpAdapter.NewServer(lifecycle, dashboard, jobs, addr)

	// Graceful shutdown setup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go rec.Run(ctx)

	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	sig := <-sigCh
	log.Printf("received signal %v, shutting down", sig)

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("shutdown complete")
}
