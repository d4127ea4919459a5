package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/plenario-app/go-chat-gateway/internal/audit"
	"github.com/plenario-app/go-chat-gateway/internal/capability"
	"github.com/plenario-app/go-chat-gateway/internal/chat"
	"github.com/plenario-app/go-chat-gateway/internal/config"
	"github.com/plenario-app/go-chat-gateway/internal/errors"
	"github.com/plenario-app/go-chat-gateway/internal/gateway"
	"github.com/plenario-app/go-chat-gateway/internal/logger"
	"github.com/plenario-app/go-chat-gateway/internal/middleware"
)

// startTime tracks when the application started
var startTime = time.Now()

var validate = validator.New()

// ChatRequest is the payload accepted by the streaming chat endpoint
type ChatRequest struct {
	Messages     []chat.Message         `json:"messages" validate:"required,min=1,dive"`
	Model        string                 `json:"model,omitempty"`
	Files        []chat.FileAttachment  `json:"files,omitempty" validate:"omitempty,dive"`
	SystemPrompt string                 `json:"systemPrompt,omitempty"`
	Tools        []chat.ToolDeclaration `json:"tools,omitempty" validate:"omitempty,dive"`
}

// TitleRequest is the payload accepted by the title endpoint
type TitleRequest struct {
	Messages []chat.Message `json:"messages"`
}

// TitleResponse carries the generated conversation title
type TitleResponse struct {
	Title string `json:"title"`
}

// ModelInfo describes one catalog entry with its attachment capabilities
type ModelInfo struct {
	ID                          string `json:"id"`
	Object                      string `json:"object"`
	SupportsVision              bool   `json:"supports_vision"`
	SupportsNativeAudioDocument bool   `json:"supports_native_audio_document"`
}

// ModelsResponse is the OpenAI-style list envelope for the model catalog
type ModelsResponse struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}

// HealthResponse represents the structured health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Services  map[string]string      `json:"services"`
	Details   map[string]interface{} `json:"details"`
}

// modelCatalog lists the models the dashboard offers. The capability
// profile is derived from the identifier, never stored alongside it.
var modelCatalog = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-2.5-pro-exp-03-25",
	"gpt-4o",
	"gpt-4o-mini",
	"llama-3.3-70b-versatile",
}

// APIHandlers contains the dependencies needed for API handlers
type APIHandlers struct {
	Config     *config.Config
	Normalizer *chat.Normalizer
	Dispatcher *gateway.Dispatcher
	Titles     *gateway.TitleSummarizer
	Audit      *audit.Store
}

// NewAPIHandlers creates a new APIHandlers instance
func NewAPIHandlers(cfg *config.Config, normalizer *chat.Normalizer, dispatcher *gateway.Dispatcher, titles *gateway.TitleSummarizer, auditStore *audit.Store) *APIHandlers {
	return &APIHandlers{
		Config:     cfg,
		Normalizer: normalizer,
		Dispatcher: dispatcher,
		Titles:     titles,
		Audit:      auditStore,
	}
}

// ChatStreamHandler handles the streaming chat endpoint
// @Summary      Streaming chat completions
// @Description  Normalizes attachments for the selected model and relays the upstream SSE stream verbatim
// @Tags         chat
// @Accept       json
// @Produce      text/event-stream
// @Param        request  body  ChatRequest  true  "Chat request with optional attachments and tools"
// @Success      200  {string}  string             "Server-sent event stream"
// @Failure      400  {object}  errors.ErrorResponse  "Invalid request payload"
// @Failure      500  {object}  errors.ErrorResponse  "Missing credential or internal failure"
// @Router       /v1/chat/stream [post]
func (h *APIHandlers) ChatStreamHandler(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithComponent(r.Context(), "ChatStreamHandler")
	ctx = logger.WithStage(ctx, "Request")
	start := time.Now()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(ctx, "Failed to decode chat request", err)
		errors.HandleError(w, errors.NewValidationError("corpo da requisição inválido"), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		logger.Error(ctx, "Chat request validation failed", err)
		errors.HandleError(w, errors.NewValidationError("mensagens ausentes ou inválidas"), http.StatusBadRequest)
		return
	}

	model := req.Model
	if model == "" {
		model = h.Config.Completion.DefaultModel
	}
	profile := capability.Classify(model)

	logger.Info(ctx, "Chat stream request received",
		"model", model,
		"messages_count", len(req.Messages),
		"files_count", len(req.Files),
		"tools_count", len(req.Tools),
		"supports_vision", profile.SupportsVision,
		"supports_native_audio_document", profile.SupportsNativeAudioDocument,
	)

	ctx = logger.WithStage(ctx, "Normalize")
	messages := h.Normalizer.RewriteLastUserMessage(ctx, req.Messages, req.Files, profile)
	completion := h.Dispatcher.BuildRequest(model, req.SystemPrompt, messages, req.Tools)

	ctx = logger.WithStage(ctx, "Stream")
	statusCode := http.StatusOK
	if err := h.Dispatcher.Stream(ctx, w, completion); err != nil {
		statusCode = writeStreamError(ctx, w, err)
	}

	h.recordUsage(r, "/v1/chat/stream", model, profile, req.Files, statusCode, start)
}

// writeStreamError maps a dispatcher failure onto the error envelope. It is
// only reached before any stream byte is written: the dispatcher resolves
// credentials and the upstream status before touching the response.
func writeStreamError(ctx context.Context, w http.ResponseWriter, err error) int {
	switch e := err.(type) {
	case *errors.UpstreamError:
		logger.Error(ctx, "Upstream completion request failed", e,
			"upstream_status", e.StatusCode,
		)
		errors.HandleUpstreamError(w, e)
		return e.StatusCode
	case *errors.APIError:
		logger.Error(ctx, "Chat stream dispatch failed", e, "error_type", string(e.Type))
		errors.HandleError(w, e, http.StatusInternalServerError)
		return http.StatusInternalServerError
	default:
		logger.Error(ctx, "Chat stream dispatch failed", err)
		errors.HandleError(w, errors.NewInternalError("falha interna ao processar a requisição"), http.StatusInternalServerError)
		return http.StatusInternalServerError
	}
}

func (h *APIHandlers) recordUsage(r *http.Request, endpoint, model string, profile capability.Profile, files []chat.FileAttachment, statusCode int, start time.Time) {
	if h.Audit == nil || !h.Audit.Enabled() {
		return
	}

	audioFiles := 0
	for _, f := range files {
		if f.Kind() == chat.KindAudio {
			audioFiles++
		}
	}

	h.Audit.Record(audit.UsageRecord{
		RequestID:   middleware.RequestIDFromContext(r.Context()),
		Endpoint:    endpoint,
		Model:       model,
		Vision:      profile.SupportsVision,
		NativeAudio: profile.SupportsNativeAudioDocument,
		Attachments: len(files),
		AudioFiles:  audioFiles,
		StatusCode:  statusCode,
		DurationMs:  time.Since(start).Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	})
}

// TitleHandler handles the conversation title endpoint
// @Summary      Conversation title generation
// @Description  Produces a short title for a conversation; never fails, falling back to a default title
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request  body  TitleRequest  true  "Conversation messages"
// @Success      200  {object}  TitleResponse  "Generated or fallback title"
// @Router       /v1/chat/title [post]
func (h *APIHandlers) TitleHandler(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithComponent(r.Context(), "TitleHandler")
	ctx = logger.WithStage(ctx, "Request")
	start := time.Now()

	title := gateway.FallbackTitle
	var req TitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn(ctx, "Failed to decode title request, using fallback", "error", err.Error())
	} else {
		title = h.Titles.Summarize(ctx, req.Messages)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(TitleResponse{Title: title}); err != nil {
		logger.Error(ctx, "Failed to write title response", err)
	}

	h.recordUsage(r, "/v1/chat/title", h.Config.Completion.TitleModel, capability.Profile{}, nil, http.StatusOK, start)
}

// ModelsHandler handles the model catalog endpoint
// @Summary      List available models
// @Description  Returns the model catalog with the attachment capabilities of each entry
// @Tags         models
// @Accept       json
// @Produce      json
// @Success      200  {object}  ModelsResponse  "Model catalog"
// @Router       /v1/models [get]
func (h *APIHandlers) ModelsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithComponent(r.Context(), "ModelsHandler")

	data := make([]ModelInfo, 0, len(modelCatalog))
	for _, id := range modelCatalog {
		profile := capability.Classify(id)
		data = append(data, ModelInfo{
			ID:                          id,
			Object:                      "model",
			SupportsVision:              profile.SupportsVision,
			SupportsNativeAudioDocument: profile.SupportsNativeAudioDocument,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ModelsResponse{Object: "list", Data: data}); err != nil {
		logger.Error(ctx, "Failed to write models response", err)
	}
}

// HealthHandler handles the health check endpoint
// @Summary      Health check endpoint
// @Description  Returns structured health information including status, services, and version details
// @Tags         health
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.HealthResponse  "Structured health response"
// @Router       /health [get]
func (h *APIHandlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	uptime := int64(time.Since(startTime).Seconds())

	version := os.Getenv("VERSION")
	if version == "" {
		version = "unknown"
	}

	services := make(map[string]string)
	overallStatus := "healthy"

	// The gateway keeps serving without a completion credential; only the
	// streaming endpoint rejects requests, so this is a degradation.
	if h.Config.Completion.APIKey != "" {
		services["completion"] = "up"
	} else {
		services["completion"] = "down"
		overallStatus = "degraded"
	}

	if h.Config.Transcribe.APIKey != "" {
		services["transcription"] = "up"
	} else {
		services["transcription"] = "down"
		if overallStatus == "healthy" {
			overallStatus = "degraded"
		}
	}

	if h.Audit != nil && h.Audit.Enabled() {
		healthCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Audit.HealthCheck(healthCtx); err != nil {
			services["audit"] = "unhealthy"
			if overallStatus == "healthy" {
				overallStatus = "degraded"
			}
		} else {
			services["audit"] = "up"
		}
	} else {
		services["audit"] = "disabled"
	}

	healthResponse := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
		Details: map[string]interface{}{
			"version": version,
			"uptime":  uptime,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(healthResponse); err != nil {
		ctx := logger.WithComponent(r.Context(), "HealthHandler")
		logger.Error(ctx, "Failed to write health response", err)
	}

	if overallStatus != "healthy" {
		ctx := logger.WithComponent(r.Context(), "HealthHandler")
		logger.Warn(ctx, "Health check degraded",
			"overall_status", overallStatus,
			"services_status", services,
		)
	}
}
