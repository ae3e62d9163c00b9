// Package main runs the tokenomics API server:
// - API listener: simulation, budget, supply, power-law and live WebSocket endpoints
// - Metrics listener: /health, /metrics, /status
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"quanta-tokenomics/internal/api"
	"quanta-tokenomics/internal/config"
	"quanta-tokenomics/internal/observability"
	"quanta-tokenomics/internal/simulation"
)

func main() {
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Load .env file if exists
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatalf("Failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Parse flags (env vars as defaults)
	httpAddr := flag.String("http-addr", cfg.HTTPAddr, "API HTTP address")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics HTTP address")
	cacheSize := flag.Int("cache-size", cfg.CacheSize, "Simulation result cache size")
	origins := flag.String("allowed-origins", strings.Join(cfg.AllowedOrigins, ","), "Comma-separated CORS origins")
	shutdownTimeout := flag.Duration("shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")
	flag.Parse()

	metrics := observability.NewMetrics("", nil)
	runner, err := simulation.NewRunner(simulation.RunnerOptions{
		CacheSize: *cacheSize,
		Metrics:   metrics,
	})
	if err != nil {
		logger.Fatalf("Failed to create runner: %v", err)
	}

	apiServer := api.NewServer(api.Options{
		Runner:         runner,
		Metrics:        metrics,
		Logger:         log.New(os.Stdout, "[api] ", log.LstdFlags|log.Lshortfile),
		AllowedOrigins: splitList(*origins),
	})

	started := time.Now()
	servers := []*http.Server{
		{Addr: *httpAddr, Handler: apiServer.Handler(), ReadHeaderTimeout: 10 * time.Second},
		{Addr: *metricsAddr, Handler: statusMux(started), ReadHeaderTimeout: 10 * time.Second},
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Printf("Starting HTTP server on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
	case err := <-errCh:
		logger.Printf("HTTP server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Printf("Shutdown %s: %v", srv.Addr, err)
		}
	}

	logger.Println("Shutdown complete")
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status  string    `json:"status"`
	Started time.Time `json:"started"`
	Uptime  string    `json:"uptime"`
}

// statusMux serves health, metrics and status.
func statusMux(started time.Time) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(StatusResponse{
			Status:  "running",
			Started: started,
			Uptime:  time.Since(started).Round(time.Second).String(),
		})
	})
	return mux
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
