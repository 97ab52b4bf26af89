package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jackzampolin/provlink/internal/api"
	"github.com/jackzampolin/provlink/internal/config"
	"github.com/jackzampolin/provlink/internal/document"
	"github.com/jackzampolin/provlink/internal/home"
	"github.com/jackzampolin/provlink/internal/metrics"
	"github.com/jackzampolin/provlink/internal/review"
	"github.com/jackzampolin/provlink/internal/server/endpoints"
	"github.com/jackzampolin/provlink/internal/svcctx"
)

// Server is the provlink HTTP server. It owns the review sessions and the
// connection to the document cache, closing both on shutdown.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	home       *home.Dir
	fetcher    document.Fetcher
	logger     *slog.Logger
	metrics    *metrics.Metrics

	// services holds all core services for context enrichment
	services *svcctx.Services
	sessions *review.Manager
	cache    *document.RedisCache

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu       sync.RWMutex
	running  bool
	listener net.Listener
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: server.host from config)
	Host string
	// Port is the port to listen on (default: server.port from config). "0" picks a free port.
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home is the provlink home directory, used by dir storage
	Home *home.Dir
	// Fetcher overrides the document source built from config
	Fetcher document.Fetcher
	// Registry receives the server's Prometheus metrics (default: a new registry)
	Registry *prometheus.Registry
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	appCfg := cfg.ConfigManager.Get()
	if cfg.Host == "" {
		cfg.Host = appCfg.Server.Host
	}
	if cfg.Port == "" {
		cfg.Port = appCfg.Server.Port
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
		cfg.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		home:      cfg.Home,
		fetcher:   cfg.Fetcher,
		logger:    cfg.Logger,
		metrics:   metrics.New(cfg.Registry),
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)
	mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{Registry: cfg.Registry}))

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start connects the document source, opens the session manager and serves HTTP.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	appCfg := s.configMgr.Get()

	// Connect the optional document cache
	if url := config.ResolveEnvVars(appCfg.Cache.RedisURL); url != "" {
		cache, err := document.NewRedisCache(ctx, url)
		if err != nil {
			s.logger.Warn("document cache unavailable, continuing without it", "error", err)
		} else {
			s.cache = cache
			s.logger.Info("document cache connected", "ttl", appCfg.CacheTTL())
		}
	}

	fetcher, err := s.buildFetcher(appCfg)
	if err != nil {
		s.cleanup()
		return fmt.Errorf("failed to configure storage: %w", err)
	}

	sessions := review.NewManager(review.Config{
		Fetcher:     fetcher,
		Viewer:      appCfg.ToReviewViewer(),
		LoadTimeout: appCfg.LoadTimeout(),
		Logger:      s.logger,
		Metrics:     s.metrics,
	})

	// Viewer settings and form schemas apply to open sessions; storage changes need a restart.
	s.configMgr.OnChange(func(c *config.Config) {
		sessions.SetViewer(c.ToReviewViewer())
		s.logger.Info("viewer settings reloaded from config")
	})

	// Create services struct for context enrichment
	s.mu.Lock()
	s.sessions = sessions
	s.services = &svcctx.Services{
		Sessions: sessions,
		Config:   s.configMgr,
		Cache:    s.cache,
		Logger:   s.logger,
		Home:     s.home,
		Metrics:  s.metrics,
	}
	s.mu.Unlock()

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.cleanup()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String(), "storage", appCfg.Storage.Type)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.cleanup()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// buildFetcher creates the document source named by storage.type, wrapped in the cache if connected.
func (s *Server) buildFetcher(cfg *config.Config) (document.Fetcher, error) {
	fetcher := s.fetcher
	if fetcher == nil {
		switch cfg.Storage.Type {
		case config.StorageHTTP:
			hc := cfg.ToHTTPConfig()
			hc.Logger = s.logger
			f, err := document.NewHTTPFetcher(hc)
			if err != nil {
				return nil, err
			}
			fetcher = f
		case config.StorageDir:
			h := s.home
			if cfg.Storage.Dir != "" {
				dir, err := home.New(cfg.Storage.Dir)
				if err != nil {
					return nil, err
				}
				h = dir
			}
			if h == nil {
				return nil, errors.New("dir storage needs a home directory")
			}
			fetcher = document.NewDirFetcher(h)
		default:
			return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
		}
	}
	if s.cache != nil {
		fetcher = document.NewCachedFetcher(fetcher, s.cache, cfg.CacheTTL(), s.logger, s.metrics)
	}
	return fetcher, nil
}

// shutdown performs graceful shutdown of the HTTP server and sessions.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.cleanup()
	s.logger.Info("server stopped")
	return nil
}

// cleanup closes sessions and the cache and marks the server stopped.
func (s *Server) cleanup() {
	if s.sessions != nil {
		s.logger.Info("closing review sessions", "count", s.sessions.Len())
		s.sessions.CloseAll()
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Error("document cache close error", "error", err)
		}
	}
	s.setNotRunning()
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Sessions returns the review session manager.
// Returns nil if the server hasn't started yet.
func (s *Server) Sessions() *review.Manager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions
}

// Addr returns the server's listen address. Once started, this is the bound
// address, so a configured port of "0" reports the port actually chosen.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s.mu.RLock()
		services := s.services
		s.mu.RUnlock()
		if services != nil {
			ctx = svcctx.WithServices(ctx, services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the session manager isn't ready.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svcctx.SessionsFrom(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
