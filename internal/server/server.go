package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jackzampolin/cookbook/internal/api"
	"github.com/jackzampolin/cookbook/internal/config"
	"github.com/jackzampolin/cookbook/internal/home"
	"github.com/jackzampolin/cookbook/internal/jobs"
	"github.com/jackzampolin/cookbook/internal/render"
	"github.com/jackzampolin/cookbook/internal/server/endpoints"
	"github.com/jackzampolin/cookbook/internal/svcctx"
)

// Server is the main Cookbook HTTP server.
// It manages the headless browser lifecycle, starting it on server start and
// stopping it on server shutdown.
type Server struct {
	httpServer *http.Server
	renderer   *render.Chromium
	registry   jobs.Registry
	pool       *jobs.Pool
	controller *jobs.Controller
	sweeper    *jobs.Sweeper
	home       *home.Dir
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// Home is the application home directory
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Home == nil {
		h, err := home.New("")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.Home = h
	}
	if err := cfg.Home.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}

	appCfg := config.DefaultConfig()
	if cfg.ConfigManager != nil {
		appCfg = cfg.ConfigManager.Get()
	}

	s := &Server{
		renderer:  render.NewChromium(cfg.Logger),
		registry:  jobs.NewMemoryRegistry(),
		home:      cfg.Home,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	s.pool = jobs.NewPool(jobs.PoolConfig{
		Logger:    cfg.Logger,
		Workers:   appCfg.Jobs.Workers,
		QueueSize: appCfg.Jobs.QueueSize,
	})
	s.controller = jobs.NewController(s.registry, s.pool, s.renderer, cfg.Home, jobs.Options{
		CategoryPriority: appCfg.Categories,
		MaxImageWidth:    appCfg.Images.MaxWidth,
		JPEGQuality:      appCfg.Images.Quality,
	}, cfg.Logger)
	s.sweeper = jobs.NewSweeper(s.registry, appCfg.Jobs.Retention, appCfg.Jobs.SweepInterval, cfg.Logger)

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server and the headless browser.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	// Start the headless browser used for PDF rendering
	s.logger.Info("starting headless browser")
	if err := s.renderer.Start(ctx); err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to start browser: %w", err)
	}
	s.logger.Info("browser is ready")

	// Background workers and the eviction sweeper run until ctx is done
	go s.pool.Start(ctx)
	go s.sweeper.Run(ctx)

	// Create services struct for context enrichment
	s.services = &svcctx.Services{
		Controller:    s.controller,
		Registry:      s.registry,
		Pool:          s.pool,
		ConfigManager: s.configMgr,
		Logger:        s.logger,
		Home:          s.home,
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
			_ = s.shutdown() // Clean up browser on HTTP error
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server and the browser.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.logger.Info("stopping browser")
	if err := s.renderer.Close(); err != nil {
		s.logger.Error("browser close error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
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

// Controller returns the job controller.
func (s *Server) Controller() *jobs.Controller {
	return s.controller
}

// JobRegistry returns the job registry.
func (s *Server) JobRegistry() jobs.Registry {
	return s.registry
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// URL returns the base URL for reaching the server.
func (s *Server) URL() string {
	return "http://" + s.httpServer.Addr
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable until the browser and controller are ready.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		ready := s.running && s.services != nil
		s.mu.RUnlock()
		if !ready {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}

// ParsePort validates a port string.
func ParsePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port: %s", port)
	}
	return nil
}
