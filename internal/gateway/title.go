package gateway

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/plenario-app/go-chat-gateway/internal/chat"
	"github.com/plenario-app/go-chat-gateway/internal/config"
	"github.com/plenario-app/go-chat-gateway/internal/logger"
)

// FallbackTitle is returned whenever summarization cannot produce a usable
// result. The title endpoint never propagates an error.
const FallbackTitle = "Nova conversa"

// titleMaxMessageLength bounds each message's contribution to keep the
// summarization call cheap.
const titleMaxMessageLength = 160

const titleInstruction = "Resuma a conversa acima em um título curto de 3 a 5 palavras, " +
	"no mesmo idioma da conversa, sem aspas e sem ponto final."

// TitleSummarizer produces a short conversation title through a single
// non-streaming completion call.
type TitleSummarizer struct {
	api     *openai.Client
	model   string
	enabled bool
}

// NewTitleSummarizer creates a summarizer from the completion configuration
func NewTitleSummarizer(cfg config.CompletionConfig) *TitleSummarizer {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	apiConfig.BaseURL = cfg.BaseURL

	return &TitleSummarizer{
		api:     openai.NewClientWithConfig(apiConfig),
		model:   cfg.TitleModel,
		enabled: cfg.APIKey != "",
	}
}

// Summarize returns a 3-5 word title for the conversation. Every failure
// mode collapses into the fallback title.
func (s *TitleSummarizer) Summarize(ctx context.Context, messages []chat.Message) string {
	ctx = logger.WithComponent(ctx, "title-summarizer")

	if !s.enabled || len(messages) == 0 {
		return FallbackTitle
	}

	prompt := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	for _, m := range messages {
		text := truncate(m.Content.PlainText(), titleMaxMessageLength)
		if text == "" {
			continue
		}
		prompt = append(prompt, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: text,
		})
	}
	prompt = append(prompt, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: titleInstruction,
	})

	resp, err := s.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: prompt,
		Stream:   false,
	})
	if err != nil {
		logger.Warn(ctx, "Title summarization failed, using fallback",
			"model", s.model,
			"reason", err.Error(),
		)
		return FallbackTitle
	}

	if len(resp.Choices) == 0 {
		return FallbackTitle
	}

	title := CleanTitle(resp.Choices[0].Message.Content)
	if title == "" {
		return FallbackTitle
	}
	return title
}

// CleanTitle strips a single pair of surrounding quote characters and a
// single trailing period from a model-produced title.
func CleanTitle(raw string) string {
	title := strings.TrimSpace(raw)

	quotePairs := [][2]string{
		{`"`, `"`},
		{"'", "'"},
		{"“", "”"},
		{"‘", "’"},
	}
	for _, pair := range quotePairs {
		if strings.HasPrefix(title, pair[0]) && strings.HasSuffix(title, pair[1]) && len(title) > len(pair[0])+len(pair[1]) {
			title = strings.TrimSpace(title[len(pair[0]) : len(title)-len(pair[1])])
			break
		}
	}

	title = strings.TrimSuffix(title, ".")
	return strings.TrimSpace(title)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
