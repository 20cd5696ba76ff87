package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/remiblancher/qder/internal/api/router"
)

// Server represents the HTTP server.
type Server struct {
	cfg     *Config
	version string
	srv     *http.Server

	// Out receives the startup banner. Nil means os.Stdout.
	Out io.Writer
}

// New creates a new Server.
func New(cfg *Config, version string) *Server {
	return &Server{
		cfg:     cfg,
		version: version,
	}
}

// Handler returns the routed handler served by the server.
func (s *Server) Handler() http.Handler {
	return router.New(&router.Config{Version: s.version})
}

// Start listens on the configured address and blocks until SIGINT or
// SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
	s.printStartupInfo(ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if s.cfg.TLS() {
			errChan <- s.srv.ServeTLS(ln, s.cfg.TLSCert, s.cfg.TLSKey)
		} else {
			errChan <- s.srv.Serve(ln)
		}
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Printf("Shutting down...")
		return s.shutdown()
	}
}

// shutdown gracefully stops the server.
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Println("Server stopped gracefully")
	return nil
}

// printStartupInfo prints server startup information.
func (s *Server) printStartupInfo(addr string) {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}
	scheme := "http"
	if s.cfg.TLS() {
		scheme = "https"
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "qder API Server")
	fmt.Fprintln(out, "===============")
	fmt.Fprintf(out, "  Version:  %s\n", s.version)
	fmt.Fprintf(out, "  Address:  %s://%s\n", scheme, addr)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Endpoints:")
	fmt.Fprintln(out, "  GET  /health              - Health check")
	fmt.Fprintln(out, "  GET  /ready               - Readiness check")
	fmt.Fprintln(out, "  GET  /api/v1/oid          - Registered OID names")
	fmt.Fprintln(out, "  GET  /api/v1/oid/{name}   - Resolve a name or dotted OID")
	fmt.Fprintln(out, "  POST /api/v1/oid/encode   - Encode an OID")
	fmt.Fprintln(out, "  POST /api/v1/oid/decode   - Decode an OID")
	fmt.Fprintln(out, "  POST /api/v1/tbs/encode   - Encode a certificate template")
	fmt.Fprintln(out, "  POST /api/v1/crl/encode   - Encode a CRL template")
	fmt.Fprintln(out, "  POST /api/v1/repack       - Repack bit groups")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Use Ctrl+C to stop")
	fmt.Fprintln(out)
}
