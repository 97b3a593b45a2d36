// Copyright 2025 LNP/BP RGB Contributors
//
// Server assembles the HTTP mux exposed by a validation service: the
// consignment validation endpoint, a liveness probe, and Prometheus
// metrics.

package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/lnp-bp/rgb-validation-core/pkg/metrics"
	"github.com/lnp-bp/rgb-validation-core/pkg/validation"
)

// New builds the mux-backed http.Handler for a validation service,
// wiring v and m into the API surface.
func New(v *validation.Validator, m *metrics.Metrics, logger *log.Logger) http.Handler {
	handlers := NewValidateHandlers(v, m, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handlers.HandleHealthz)
	mux.HandleFunc("/api/v1/validate", handlers.HandleValidate)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// Serve runs an http.Server bound to addr until ctx is cancelled, then
// shuts it down with a 30s grace period.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("validation API listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP server shutdown error: %v", err)
			return err
		}
		return nil
	case err := <-errCh:
		return err
	}
}
