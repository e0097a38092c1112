package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

var errCatalogUnavailable = errors.New("catalog unavailable")

func main() {
	_ = godotenv.Load()

	port := getEnv("PORT", "9001")
	token := os.Getenv("CATALOG_TOKEN")
	failureRate, err := strconv.ParseFloat(getEnv("FAILURE_RATE", "0.1"), 64)
	if err != nil || failureRate < 0 || failureRate > 1 {
		failureRate = 0.1
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	listings := newListingsHandler(generateCatalog(time.Now().UTC()), rng, failureRate, logger)

	// Setup routes
	mux := http.NewServeMux()
	mux.Handle("GET /listings/{kind}", requireToken(token, listings))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write healthz response", "error", err)
		}
	})

	// Configure server
	addr := ":" + port
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("catalog listening", "addr", addr, "failure_rate", failureRate, "auth", token != "")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// requireToken rejects requests without the bearer token when one is set.
func requireToken(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
