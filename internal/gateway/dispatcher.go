// Package gateway assembles completion requests and relays the upstream
// provider's responses back to the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/plenario-app/go-chat-gateway/internal/chat"
	"github.com/plenario-app/go-chat-gateway/internal/config"
	"github.com/plenario-app/go-chat-gateway/internal/errors"
	"github.com/plenario-app/go-chat-gateway/internal/logger"
	"github.com/plenario-app/go-chat-gateway/internal/utils"
)

// Upstream error bodies are bounded so a misbehaving provider cannot balloon
// the error response.
const maxErrorBodySize = 64 * 1024

// CompletionRequest is the fully assembled outbound payload
type CompletionRequest struct {
	Model      string         `json:"model"`
	Messages   []chat.Message `json:"messages"`
	Stream     bool           `json:"stream"`
	Tools      []upstreamTool `json:"tools,omitempty"`
	ToolChoice string         `json:"tool_choice,omitempty"`
}

// upstreamTool is the provider's wire shape for a tool declaration
type upstreamTool struct {
	Type     string           `json:"type"`
	Function upstreamFunction `json:"function"`
}

type upstreamFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Dispatcher submits completion requests to the upstream provider and
// streams responses back without re-buffering.
type Dispatcher struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewDispatcher creates a dispatcher from configuration. The credential is
// injected here rather than read from the process environment at call sites,
// so tests can exercise the missing-credential path deterministically.
func NewDispatcher(cfg config.CompletionConfig) *Dispatcher {
	return &Dispatcher{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BuildRequest assembles the outbound completion payload: the system context
// message is prepended exactly once, the (already normalized) conversation
// follows in caller order, and tool declarations switch on advisory tool
// invocation when present.
func (d *Dispatcher) BuildRequest(model string, systemPrompt string, messages []chat.Message, tools []chat.ToolDeclaration) CompletionRequest {
	assembled := make([]chat.Message, 0, len(messages)+1)
	assembled = append(assembled, ContextMessage(systemPrompt, time.Now()))
	assembled = append(assembled, messages...)

	req := CompletionRequest{
		Model:    model,
		Messages: assembled,
		Stream:   true,
	}

	if len(tools) > 0 {
		req.Tools = make([]upstreamTool, 0, len(tools))
		for _, t := range tools {
			req.Tools = append(req.Tools, upstreamTool{
				Type: "function",
				Function: upstreamFunction{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  t.Parameters,
				},
			})
		}
		req.ToolChoice = "auto"
	}

	return req
}

// Stream submits the completion request and relays the upstream event stream
// to the caller as received. It fails fast on a missing credential, forwards
// upstream failures verbatim as *errors.UpstreamError, and stops relaying
// when the caller disconnects.
func (d *Dispatcher) Stream(ctx context.Context, w http.ResponseWriter, completion CompletionRequest) error {
	ctx = logger.WithComponent(ctx, "dispatcher")

	if d.apiKey == "" {
		return errors.NewConfigurationError("API Key ausente")
	}

	body, err := json.Marshal(completion)
	if err != nil {
		return fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create upstream request: %w", err)
	}
	req.Header.Set(utils.HeaderContentType, utils.ContentTypeJSON)
	req.Header.Set(utils.HeaderAuthorization, "Bearer "+d.apiKey)
	req.Header.Set(utils.HeaderUserAgent, utils.ServiceName)

	logger.Debug(ctx, "Dispatching completion request",
		"model", completion.Model,
		"messages_count", len(completion.Messages),
		"tools_count", len(completion.Tools),
		"body_length", len(body),
	)

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream completion call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		if readErr != nil {
			logger.Warn(ctx, "Failed to read upstream error body",
				"status_code", resp.StatusCode,
				"reason", readErr.Error(),
			)
		}
		logger.Warn(ctx, "Upstream rejected completion request",
			"status_code", resp.StatusCode,
			"model", completion.Model,
			"response_body", string(errorBody),
		)
		return &errors.UpstreamError{StatusCode: resp.StatusCode, Body: string(errorBody)}
	}

	return d.relay(ctx, w, resp.Body, completion.Model, start)
}

// relay forwards the upstream byte stream to the caller, flushing as bytes
// arrive so no buffering layer adds latency.
func (d *Dispatcher) relay(ctx context.Context, w http.ResponseWriter, upstream io.Reader, model string, start time.Time) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return errors.NewInternalError("streaming not supported by response writer")
	}

	h := w.Header()
	h.Set(utils.HeaderContentType, utils.ContentTypeEventStreamUTF8)
	h.Set(utils.HeaderCacheControl, utils.CacheControlNoCache)
	h.Set(utils.HeaderConnection, utils.ConnectionKeepAlive)
	h.Set(utils.HeaderXAccelBuffering, utils.XAccelBufferingNo)
	h.Del(utils.HeaderContentLength)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	var relayed int64
	buf := make([]byte, 32*1024)
	for {
		n, err := upstream.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				// The caller went away; stop forwarding and release
				// the upstream connection.
				logger.Debug(ctx, "Client disconnected during stream",
					"model", model,
					"bytes_relayed", relayed,
				)
				return nil
			}
			relayed += int64(n)
			flusher.Flush()
		}
		if err == io.EOF {
			logger.Info(ctx, "Completion stream finished",
				"model", model,
				"bytes_relayed", relayed,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug(ctx, "Stream cancelled by caller",
					"model", model,
					"bytes_relayed", relayed,
				)
				return nil
			}
			logger.Error(ctx, "Upstream stream read failed", err,
				"model", model,
				"bytes_relayed", relayed,
			)
			// Headers are already sent; the broken stream itself is the
			// terminal signal for the caller.
			return nil
		}
	}
}
