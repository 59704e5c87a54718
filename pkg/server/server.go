// Package server exposes the message protocol over HTTP so a browser
// extension (or any local client) can drive the assistant.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/dtnitsch/llm-page-assistant/models"
	"github.com/dtnitsch/llm-page-assistant/pkg/dispatcher"
)

const shutdownTimeout = 10 * time.Second

// MessageHandler answers protocol envelopes. *router.Router implements it.
type MessageHandler interface {
	Handle(ctx context.Context, req models.Request) models.Response
}

// SettingsStore persists the model configuration. *db.DB implements it.
type SettingsStore interface {
	LoadConfiguration(ctx context.Context) (models.Configuration, error)
	SaveConfiguration(ctx context.Context, cfg models.Configuration) error
}

type Options struct {
	// AllowedOrigins may contain one "*" wildcard per entry,
	// e.g. "chrome-extension://*".
	AllowedOrigins []string
}

type Server struct {
	messages MessageHandler
	settings SettingsStore
	logger   *slog.Logger
	handler  http.Handler
}

func New(messages MessageHandler, settings SettingsStore, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{messages: messages, settings: settings, logger: logger}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	engine.GET("/healthz", s.health)
	v1 := engine.Group("/v1")
	v1.POST("/messages", s.postMessage)
	v1.GET("/settings", s.getSettings)
	v1.PUT("/settings", s.putSettings)

	s.handler = cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}).Handler(engine)

	return s
}

// Handler returns the HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("start server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) postMessage(c *gin.Context) {
	var req models.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.ErrorInfo{
			Type:    string(dispatcher.InvalidRequest),
			Message: fmt.Sprintf("failed to decode message: %v", err),
		}))
		return
	}
	// a dispatch runs to completion even if the client goes away
	ctx := context.WithoutCancel(c.Request.Context())
	// failed tasks are still a well-formed reply
	c.JSON(http.StatusOK, s.messages.Handle(ctx, req))
}

func (s *Server) getSettings(c *gin.Context) {
	cfg, err := s.settings.LoadConfiguration(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to load settings", "error", err)
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.ErrorInfo{
			Type:    "storage_error",
			Message: "failed to load settings",
		}))
		return
	}
	c.JSON(http.StatusOK, cfg.Redacted())
}

func (s *Server) putSettings(c *gin.Context) {
	var cfg models.Configuration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.ErrorInfo{
			Type:    string(dispatcher.InvalidRequest),
			Message: fmt.Sprintf("failed to decode settings: %v", err),
		}))
		return
	}

	stored, err := s.settings.LoadConfiguration(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to load settings", "error", err)
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.ErrorInfo{
			Type:    "storage_error",
			Message: "failed to load settings",
		}))
		return
	}
	cfg.APIKey = keepStoredKey(cfg.APIKey, stored)

	if missing := cfg.MissingFields(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(dispatcher.ErrorInfo(
			dispatcher.MissingConfiguration(missing))))
		return
	}

	if err := s.settings.SaveConfiguration(c.Request.Context(), cfg); err != nil {
		s.logger.Error("failed to save settings", "error", err)
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.ErrorInfo{
			Type:    "storage_error",
			Message: "failed to save settings",
		}))
		return
	}
	s.logger.Info("settings saved", "model", cfg.ModelName, "base_url", cfg.BaseURL)
	c.JSON(http.StatusOK, cfg.Redacted())
}

// keepStoredKey returns the stored key when incoming is empty or is the
// masked form handed out by GET /v1/settings.
func keepStoredKey(incoming string, stored models.Configuration) string {
	if stored.APIKey == "" {
		return incoming
	}
	if incoming == "" || incoming == stored.Redacted().APIKey {
		return stored.APIKey
	}
	return incoming
}
