package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plenario-app/go-chat-gateway/internal/app"
	"github.com/plenario-app/go-chat-gateway/internal/config"
	"github.com/plenario-app/go-chat-gateway/internal/logger"
	"github.com/plenario-app/go-chat-gateway/internal/middleware"
)

// @title           Plenário Chat Gateway
// @version         1.0
// @description     Multi-modal completion gateway for the Plenário legislative dashboard.

// @contact.name   API Support
// @contact.url    https://github.com/plenario-app/go-chat-gateway

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      0.0.0.0:8084
// @BasePath  /

func main() {
	// Load .env before anything reads the environment
	_ = config.LoadEnvFromMultiplePaths()

	// Initialize structured logging
	if err := logger.InitFromEnv(); err != nil {
		// Can't use logger here as it failed to initialize
		_, _ = os.Stderr.WriteString("FATAL: Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	application, err := app.NewApp()
	if err != nil {
		logger.Error(context.Background(), "Failed to initialize application", err)
		os.Exit(1)
	}

	handler := middleware.CORSMiddleware(
		middleware.RequestCorrelationMiddleware(application.SetupRoutes()),
	)

	addr := fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  application.Config.Server.ReadTimeout,
		WriteTimeout: application.Config.Server.WriteTimeout,
		IdleTimeout:  application.Config.Server.IdleTimeout,
	}

	go func() {
		logger.Info(context.Background(), "Server starting", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(context.Background(), "Server failed", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Graceful shutdown failed", err)
	}
	application.Shutdown(shutdownCtx)
}
