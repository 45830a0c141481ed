// SPDX-License-Identifier: MPL-2.0

package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ykrasik/jaci-sub001/internal/core/serverbase"
)

const shutdownTimeout = 5 * time.Second

// Server serves /metrics over HTTP. A Server is single-use.
type Server struct {
	*serverbase.Base

	addr    string
	handler http.Handler
}

// NewServer creates a metrics server for m listening on addr.
func NewServer(addr string, m *Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default().WithPrefix("metrics")
	}
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	return &Server{
		Base: serverbase.NewBase(
			serverbase.WithLogger(logger),
			serverbase.WithShutdownTimeout(shutdownTimeout),
			serverbase.WithClosedErrors(http.ErrServerClosed),
		),
		addr:    addr,
		handler: mux,
	}
}

// Start binds the listener and serves in the background. It returns once
// the server accepts connections.
func (s *Server) Start(ctx context.Context) error {
	return s.Base.Start(ctx, s.addr, func(net.Listener) (serverbase.Service, error) {
		return &http.Server{Handler: s.handler, ReadHeaderTimeout: 10 * time.Second}, nil
	})
}
