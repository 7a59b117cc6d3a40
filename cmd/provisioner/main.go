package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goriiin/go-cassandra-provisioner/internal/config"
	"github.com/goriiin/go-cassandra-provisioner/internal/delivery"
	"github.com/goriiin/go-cassandra-provisioner/pkg/cassandra"
)

func main() {
	const apiPort = ":8080"

	cfg := config.NewCassandraConfig()
	clusterCfg, err := cfg.ClusterConfig()
	if err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}

	factory := cassandra.NewClusterFactory(clusterCfg)
	if err := factory.Build(); err != nil {
		log.Fatalf("FATAL: Failed to build cluster handle: %v", err)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 60*time.Second)
	if err := factory.Start(startCtx); err != nil {
		cancelStart()
		log.Fatalf("FATAL: Failed to run startup scripts: %v", err)
	}
	cancelStart()
	log.Printf("INFO: Cluster provisioned, contact points: %v", clusterCfg.ContactPoints)

	handler := delivery.NewStatusHandler(factory)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Get("/status", handler.Status)
	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: apiPort, Handler: r}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("INFO: Starting provisioner API on port %s", apiPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("INFO: Shutdown signal received.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: HTTP server shutdown: %v", err)
	}

	// Best effort: script failures are reported but never block teardown.
	if err := factory.Stop(shutdownCtx); err != nil {
		log.Printf("ERROR: Shutdown scripts reported errors: %v", err)
	}

	log.Println("INFO: Provisioner stopped.")
}
