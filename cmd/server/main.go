package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/factorgo/factorgo/config"
	"github.com/factorgo/factorgo/internal/analyzer"
	"github.com/factorgo/factorgo/internal/dataflows"
	"github.com/factorgo/factorgo/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr, err := config.NewManager(config.WithInitialConfig(config.DefaultConfig()))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cfg := mgr.Get()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}

	// Pick up config file edits while running. The manager stores the
	// reloaded config under its lock and the analyzer and handlers read
	// it through mgr.Get per request, so threshold changes apply without
	// a restart and without racing in-flight requests.
	if err := mgr.Watch(ctx, func(config.Config) {
		log.Printf("Configuration reloaded from %s", mgr.Path())
	}); err != nil {
		log.Printf("Config watch disabled: %v", err)
	}

	a := analyzer.New(dataflows.NewYahooClient(&cfg), mgr)
	srv := service.NewServer(mgr, a).HTTPServer()

	go func() {
		log.Printf("Starting FactorGo server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
