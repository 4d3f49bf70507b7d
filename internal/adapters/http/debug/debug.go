// Package debug exposes the optional operational HTTP surface: a
// liveness probe and the Prometheus metrics of the engine.
package debug

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	logger "github.com/iam74k4/eventplayback/pkg/logger"
	"github.com/iam74k4/eventplayback/pkg/metrics"
)

// Register wires the debug routes onto the mux.
func Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

// handleHealth handles GET /healthz requests.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Serve runs the debug listener until the context is cancelled. It
// returns once the server has shut down.
func Serve(ctx context.Context, addr string) error {
	log := logger.Named("debug")

	mux := http.NewServeMux()
	Register(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "debug listener started", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
