package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/softura/inventario/app/server"
	"github.com/softura/inventario/app/web"
	"github.com/softura/inventario/config"
	"github.com/softura/inventario/models"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess         = 0
	ExitConfigError     = 1
	ExitDatabaseError   = 2
	ExitHTTPServerError = 3
)

// =============================================================================
// Server
// =============================================================================

// Server is the running web application.
type Server struct {
	config     *config.Config
	httpServer *http.Server
	db         *gorm.DB
	logger     *slog.Logger
}

// NewServer opens the database pool and builds the HTTP server.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := models.Open(cfg.Database, logger)
	if err != nil {
		return nil, &ServerError{
			Op:       "NewServer",
			Err:      err,
			ExitCode: ExitDatabaseError,
		}
	}

	view, err := web.NewRenderer(
		web.NewFlashes(sessionSecret(cfg.Session, logger), cfg.Session.Name, cfg.Session.Secure, logger),
		logger,
	)
	if err != nil {
		_ = models.Close(db)
		return nil, &ServerError{
			Op:       "NewServer",
			Err:      err,
			ExitCode: ExitConfigError,
		}
	}

	repo := models.NewProductsRepository(db)
	handler := server.New(repo, view, logger).Routes()

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config:     cfg,
		httpServer: httpServer,
		db:         db,
		logger:     logger,
	}, nil
}

// sessionSecret returns the configured signing secret, or a random one that
// lives as long as the process.
func sessionSecret(cfg config.SessionConfig, logger *slog.Logger) []byte {
	if cfg.Secret != "" {
		return []byte(cfg.Secret)
	}
	logger.Warn("session.secret is not set; flash messages will not survive a restart")
	return []byte(uuid.NewString() + uuid.NewString())
}

// Start starts the server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server",
			"address", s.config.Server.Address())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		s.logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		_ = models.Close(s.db)
		return &ServerError{
			Op:       "Start",
			Err:      err,
			ExitCode: ExitHTTPServerError,
		}
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	}

	return s.Shutdown(context.Background())
}

// Shutdown finishes in-flight requests and closes the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := models.Close(s.db); err != nil {
		s.logger.Error("database close error", "error", err)
	}

	s.logger.Info("shutdown complete")
	return nil
}

// =============================================================================
// Server Error
// =============================================================================

// ServerError represents an error during server operation.
type ServerError struct {
	Op       string
	Err      error
	ExitCode int
}

func (e *ServerError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
