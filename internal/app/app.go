package app

import (
	"context"
	"net/http"

	"github.com/plenario-app/go-chat-gateway/internal/audit"
	"github.com/plenario-app/go-chat-gateway/internal/chat"
	"github.com/plenario-app/go-chat-gateway/internal/config"
	"github.com/plenario-app/go-chat-gateway/internal/gateway"
	"github.com/plenario-app/go-chat-gateway/internal/handlers"
	"github.com/plenario-app/go-chat-gateway/internal/logger"
	"github.com/plenario-app/go-chat-gateway/internal/router"
	"github.com/plenario-app/go-chat-gateway/internal/transcribe"
)

// App centralizes the application's dependencies and configuration
type App struct {
	Config     *config.Config
	Handlers   *handlers.APIHandlers
	AuditStore *audit.Store
}

// NewApp creates a new App instance with all dependencies
func NewApp() (*App, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	auditStore, err := audit.NewStore(cfg.Audit)
	if err != nil {
		// The audit store is optional infrastructure; a broken MongoDB
		// connection must not keep the gateway from serving chats.
		logger.Warn(context.Background(), "Audit store unavailable, continuing without it",
			"error", err.Error(),
		)
		auditStore = nil
	}

	transcriber := transcribe.NewClient(cfg.Transcribe)
	normalizer := chat.NewNormalizer(transcriber)
	dispatcher := gateway.NewDispatcher(cfg.Completion)
	titles := gateway.NewTitleSummarizer(cfg.Completion)

	apiHandlers := handlers.NewAPIHandlers(cfg, normalizer, dispatcher, titles, auditStore)

	logger.Info(context.Background(), "Application initialized",
		"default_model", cfg.Completion.DefaultModel,
		"title_model", cfg.Completion.TitleModel,
		"completion_credential_configured", cfg.Completion.APIKey != "",
		"audit_enabled", auditStore != nil && auditStore.Enabled(),
	)

	return &App{
		Config:     cfg,
		Handlers:   apiHandlers,
		AuditStore: auditStore,
	}, nil
}

// SetupRoutes returns the configured HTTP handler for the application
func (a *App) SetupRoutes() http.Handler {
	return router.SetupRoutes(a.Handlers)
}

// Shutdown releases application resources
func (a *App) Shutdown(ctx context.Context) {
	if a.AuditStore != nil {
		if err := a.AuditStore.Close(ctx); err != nil {
			logger.Warn(ctx, "Failed to close audit store", "error", err.Error())
		}
	}
}
