// Package transcribe converts audio attachments into text through a fast
// secondary model, independent of the model the caller selected.
package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"

	openai "github.com/sashabaranov/go-openai"

	"github.com/plenario-app/go-chat-gateway/internal/chat"
	"github.com/plenario-app/go-chat-gateway/internal/config"
	"github.com/plenario-app/go-chat-gateway/internal/logger"
)

// Client calls the transcription provider's OpenAI-compatible audio endpoint
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a transcription client from configuration
func NewClient(cfg config.TranscribeConfig) *Client {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	apiConfig.BaseURL = cfg.BaseURL

	return &Client{
		api:   openai.NewClientWithConfig(apiConfig),
		model: cfg.Model,
	}
}

// Transcribe converts one audio attachment into plain text. Failures of any
// kind (bad payload, non-success status, transport error) are absorbed into
// an empty result: a broken transcription degrades the message content, it
// never fails the request.
func (c *Client) Transcribe(ctx context.Context, file chat.FileAttachment) string {
	ctx = logger.WithComponent(ctx, "transcriber")

	audio, err := base64.StdEncoding.DecodeString(file.Base64Payload())
	if err != nil {
		logger.Warn(ctx, "Audio payload is not valid base64, skipping transcription",
			"file", file.Name,
			"mime_type", file.MimeType,
		)
		return ""
	}

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		Reader:   bytes.NewReader(audio),
		FilePath: file.Name,
	})
	if err != nil {
		logger.Warn(ctx, "Transcription call failed, continuing without transcript",
			"file", file.Name,
			"model", c.model,
			"reason", err.Error(),
		)
		return ""
	}

	logger.Debug(ctx, "Audio transcribed",
		"file", file.Name,
		"model", c.model,
		"transcript_length", len(resp.Text),
	)
	return resp.Text
}
