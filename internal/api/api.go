// Package api serves the Prometheus metrics endpoint used in scheduled mode.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// readHeaderTimeout is the timeout for reading request headers.
const readHeaderTimeout = 10 * time.Second

// shutdownTimeout is the timeout for graceful server shutdown.
const shutdownTimeout = 5 * time.Second

// MetricsServer exposes the default Prometheus registry over HTTP.
type MetricsServer struct {
	addr string
	mux  *http.ServeMux
}

// NewMetricsServer creates a metrics server bound to the given port.
//
// Parameters:
//   - port: TCP port to listen on.
//
// Returns:
//   - *MetricsServer: Server with the /v1/metrics handler registered.
func NewMetricsServer(port string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/v1/metrics", promhttp.Handler())

	return &MetricsServer{
		addr: net.JoinHostPort("", port),
		mux:  mux,
	}
}

// Start runs the server in the background until the context is cancelled.
//
// Parameters:
//   - ctx: Context controlling the server lifetime.
func (s *MetricsServer) Start(ctx context.Context) {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	logrus.WithField("addr", s.addr).Info("Starting metrics endpoint")

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("Metrics endpoint failed")
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("Failed to shut down metrics endpoint")
		}
	}()
}

// Addr returns the listen address of the server, mainly for logging.
func (s *MetricsServer) Addr() string {
	return fmt.Sprintf("http://localhost%s/v1/metrics", s.addr)
}
