// Package server exposes the assistant over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/notexe/assistant/internal/assistant"
	"github.com/notexe/assistant/internal/config"
	"github.com/notexe/assistant/internal/history"
	"github.com/notexe/assistant/internal/logging"
	"github.com/notexe/assistant/internal/reminder"
)

// Processor routes one text command.
type Processor interface {
	Process(ctx context.Context, command string) assistant.Reply
}

// Voice is the speech engine as seen by the API.
type Voice interface {
	Speak(ctx context.Context, text string) error
	Listen(ctx context.Context) (string, error)
	TTSAvailable() bool
	STTAvailable() bool
}

// HistoryStore is the command log as seen by the API.
type HistoryStore interface {
	List(ctx context.Context, limit int) ([]history.Entry, error)
	Clear(ctx context.Context) error
}

// Deps are the collaborators behind the routes. Voice, History and
// Gatherer are optional.
type Deps struct {
	Assistant Processor
	Reminders *reminder.Manager
	Voice     Voice
	History   HistoryStore
	Gatherer  prometheus.Gatherer
	Logger    logging.Logger
}

// Server is the assistant HTTP API.
type Server struct {
	deps            Deps
	engine          *gin.Engine
	httpServer      *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration
	speakTimeout    time.Duration
}

// New creates a Server and registers its routes.
func New(cfg config.ServerConfig, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	logger := logging.OrNop(deps.Logger)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	shutdown := time.Duration(cfg.ShutdownTimeout) * time.Second
	if shutdown <= 0 {
		shutdown = 5 * time.Second
	}

	s := &Server{
		deps:            deps,
		engine:          engine,
		logger:          logger,
		shutdownTimeout: shutdown,
		speakTimeout:    30 * time.Second,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.setupRoutes()
	return s
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	return c
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
