// Package httpserver owns the ledger's HTTP server lifecycle: construction
// with bounded header reads, and a drain on shutdown so in-flight transfers
// finish before the process exits.
package httpserver

import (
	"context"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// New returns a server for the given address and handler. Per-request
// deadlines live in the router's timeout middleware; only the header read
// is bounded here, against clients that open a connection and stall.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// Shutdown drains in-flight requests, giving up after the shutdown timeout.
func Shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
