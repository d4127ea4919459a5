package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/plenario-app/go-chat-gateway/internal/handlers"
	"github.com/plenario-app/go-chat-gateway/internal/monitoring"
)

// SetupRoutes configures all routes for the application
func SetupRoutes(apiHandlers *handlers.APIHandlers) http.Handler {
	mux := http.NewServeMux()

	// Register API handlers
	mux.HandleFunc("/health", apiHandlers.HealthHandler)
	mux.HandleFunc("/v1/chat/stream", apiHandlers.ChatStreamHandler)
	mux.HandleFunc("/v1/chat/title", apiHandlers.TitleHandler)
	mux.HandleFunc("/v1/models", apiHandlers.ModelsHandler)

	// Add metrics endpoint
	mux.HandleFunc("/metrics", monitoring.MetricsHandler)

	// Add pprof endpoints for performance profiling
	monitoring.SetupPprofRoutes(mux)

	// Serve Swagger UI with proper configuration
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	// Wrap with metrics middleware
	return monitoring.MetricsMiddleware(mux)
}
