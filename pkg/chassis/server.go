// Package chassis runs the HTTP server around the API: optional TLS
// (production cert files or a self-signed development cert), standard
// security headers and graceful shutdown.
package chassis

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
)

// Config holds configuration for the chassis server.
type Config struct {
	Addr     string       // listen address, e.g. ":8421"
	TLS      bool         // serve HTTPS; self-signed cert when no files given
	CertFile string       // production cert path
	KeyFile  string       // production key path
	Handler  http.Handler
	Logger   *slog.Logger
}

// Server wraps one http.Server with its listener setup.
type Server struct {
	addr    string
	logger  *slog.Logger
	tlsCfg  *tls.Config
	httpSrv *http.Server
}

// New builds the server. TLS material is resolved eagerly so a bad cert
// path fails at startup, not at first connection.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var tlsCfg *tls.Config
	if cfg.TLS {
		var err error
		if cfg.CertFile != "" && cfg.KeyFile != "" {
			tlsCfg, err = ProductionTLSConfig(cfg.CertFile, cfg.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("load TLS cert: %w", err)
			}
			cfg.Logger.Info("TLS: production certs loaded")
		} else {
			tlsCfg, err = DevelopmentTLSConfig()
			if err != nil {
				return nil, fmt.Errorf("generate dev TLS: %w", err)
			}
			cfg.Logger.Info("TLS: self-signed dev cert generated")
		}
	}

	return &Server{
		addr:   cfg.Addr,
		logger: cfg.Logger,
		tlsCfg: tlsCfg,
		httpSrv: &http.Server{
			Addr:    cfg.Addr,
			Handler: securityHeaders(cfg.Handler),
		},
	}, nil
}

// securityHeaders wraps an http.Handler and adds standard security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// Start listens and serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	var (
		ln  net.Listener
		err error
	)
	if s.tlsCfg != nil {
		ln, err = tls.Listen("tcp", s.addr, s.tlsCfg)
	} else {
		ln, err = net.Listen("tcp", s.addr)
	}
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}

	proto := "http"
	if s.tlsCfg != nil {
		proto = "https"
	}
	s.logger.Info("chassis started", "addr", s.addr, "proto", proto)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("chassis stopping")
	return s.httpSrv.Shutdown(ctx)
}
