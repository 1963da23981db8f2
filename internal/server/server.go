package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/haskel/drainfox/internal/config"
	"github.com/haskel/drainfox/internal/monitor"
	"github.com/haskel/drainfox/internal/server/middleware"
	"github.com/haskel/drainfox/internal/storage"
	"github.com/haskel/drainfox/internal/trainer"
)

type Server struct {
	httpServer *http.Server
	sampler    *monitor.Sampler
	store      *storage.Storage
	logger     *slog.Logger
	version    string
	authConfig *middleware.AuthConfig

	// config is swapped by SIGHUP reloads while handlers read it.
	configMu sync.RWMutex
	config   *config.Config

	// predictor is swapped atomically by /train and config reloads.
	predictorMu sync.RWMutex
	predictor   *trainer.Predictor
}

func New(cfg *config.Config, store *storage.Storage, sampler *monitor.Sampler, logger *slog.Logger, version string) *Server {
	authConfig := &middleware.AuthConfig{
		Enabled:  cfg.Auth.Enabled,
		User:     cfg.Auth.User,
		Password: cfg.Auth.Password,
	}

	s := &Server{
		sampler:    sampler,
		store:      store,
		config:     cfg,
		logger:     logger,
		version:    version,
		authConfig: authConfig,
	}

	mux := s.setupRoutes()

	rateLimit := &middleware.RateLimitConfig{
		Enabled:           cfg.Server.RateLimit.Enabled,
		RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
		Burst:             cfg.Server.RateLimit.Burst,
	}

	handler := middleware.Chain(
		mux,
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.SecurityHeaders(),
		middleware.RateLimit(rateLimit),
		middleware.MaxBody(cfg.Server.MaxBodyBytes),
		middleware.Auth(authConfig, "/health"), // Exclude /health from auth
	)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// SetPredictor installs a fitted model, replacing any previous one.
func (s *Server) SetPredictor(p *trainer.Predictor) {
	s.predictorMu.Lock()
	s.predictor = p
	s.predictorMu.Unlock()
}

// Predictor returns the currently installed model, or nil.
func (s *Server) Predictor() *trainer.Predictor {
	s.predictorMu.RLock()
	defer s.predictorMu.RUnlock()
	return s.predictor
}

// Config returns a snapshot of the current configuration. The returned
// value must not be mutated; a reload installs a fresh pointer instead.
func (s *Server) Config() *config.Config {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.config
}

// ReloadConfig reloads configuration that can be changed at runtime.
// Note: host/port changes require restart.
func (s *Server) ReloadConfig(cfg *config.Config) {
	s.logger.Info("reloading configuration")

	// Auth config pointer is shared with the middleware
	s.authConfig.Update(cfg.Auth.Enabled, cfg.Auth.User, cfg.Auth.Password)

	s.configMu.Lock()
	s.config = cfg
	s.configMu.Unlock()

	s.logger.Info("configuration reloaded",
		"auth_enabled", cfg.Auth.Enabled,
	)
}

func (s *Server) Start() error {
	s.logger.Info("server starting",
		"addr", s.httpServer.Addr,
	)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
