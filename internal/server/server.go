package server

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/muurk/upnpctl/internal/controlpoint"
	"github.com/muurk/upnpctl/internal/discovery"
	"github.com/muurk/upnpctl/internal/logging"
)

const (
	// DefaultAddr is where the API listens when Config.Addr is empty
	DefaultAddr = ":8080"

	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = 10 * time.Second

	// requestTimeout bounds plain API requests; WebSocket streams are exempt
	requestTimeout = 60 * time.Second
)

// Config holds the server configuration
type Config struct {
	Addr            string
	CertPath        string        // Serve TLS when both CertPath and KeyPath are set
	KeyPath         string
	DiscoverTimeout time.Duration // Default listening window for discovery endpoints
	SearchTarget    string        // Default ST for discovery endpoints
	ShutdownTimeout time.Duration
}

// Server exposes a ControlPoint over HTTP
type Server struct {
	config *Config
	cp     *controlpoint.ControlPoint
	log    *zap.Logger
}

// New creates a new Server instance
func New(cp *controlpoint.ControlPoint, config *Config, log *zap.Logger) *Server {
	if config == nil {
		config = &Config{}
	}
	return &Server{config: config, cp: cp, log: logging.Or(log)}
}

// Handler returns the API router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(requestTimeout))
		api.Get("/discover", s.discover)
		api.Get("/device", s.device)
		api.Get("/schema", s.schema)
		api.Post("/invoke", s.invoke)
	})
	r.Get("/ws/discover", s.discoverStream)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	if s.config.CertPath != "" && s.config.KeyPath != "" {
		tlsConfig, err := NewTLSConfig(s.config.CertPath, s.config.KeyPath, s.log)
		if err != nil {
			_ = ln.Close()
			return err
		}
		ln = tls.NewListener(ln, tlsConfig)
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.log.Info("API server listening", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Shutting down API server")
		timeout := s.config.ShutdownTimeout
		if timeout <= 0 {
			timeout = DefaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("Shutdown timeout, forcing close", zap.Error(err))
			return srv.Close()
		}
		return nil
	case err := <-errCh:
		if err != nil {
			s.log.Error("API server failed", zap.Error(err))
		}
		return err
	}
}

func (s *Server) searchParams(r *http.Request) (string, time.Duration, error) {
	q := r.URL.Query()
	target := q.Get("target")
	if target == "" {
		target = s.config.SearchTarget
	}
	if target == "" {
		target = discovery.SearchAll
	}

	timeout := s.config.DiscoverTimeout
	if raw := q.Get("timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return "", 0, errors.New("timeout must be a positive duration such as 3s")
		}
		timeout = d
	}
	if timeout <= 0 {
		timeout = discovery.DefaultTimeout
	}
	return target, timeout, nil
}
