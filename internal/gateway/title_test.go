package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plenario-app/go-chat-gateway/internal/chat"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"plain title", "Reforma Tributária", "Reforma Tributária"},
		{"surrounding whitespace", "  Reforma Tributária  ", "Reforma Tributária"},
		{"double quotes", `"Reforma Tributária"`, "Reforma Tributária"},
		{"single quotes", `'Reforma Tributária'`, "Reforma Tributária"},
		{"curly quotes", "“Reforma Tributária”", "Reforma Tributária"},
		{"trailing period", "Reforma Tributária.", "Reforma Tributária"},
		{"quotes and period", `"Reforma Tributária".`, "Reforma Tributária"},
		{"period inside quotes", `"Reforma Tributária."`, "Reforma Tributária"},
		{"internal quotes kept", `Sobre "quórum" mínimo`, `Sobre "quórum" mínimo`},
		{"only quotes", `""`, `""`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanTitle(tt.raw))
		})
	}
}

func titleServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.NotEqual(t, true, payload["stream"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		})
	}))
}

func TestSummarize(t *testing.T) {
	server := titleServer(t, "\"Quórum da Sessão\".")
	defer server.Close()

	s := NewTitleSummarizer(testCompletionConfig(server.URL, "key"))

	title := s.Summarize(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: chat.TextContent("qual foi o quórum da sessão de ontem?")},
		{Role: chat.RoleAssistant, Content: chat.TextContent("A sessão de ontem teve 412 presentes.")},
	})

	assert.Equal(t, "Quórum da Sessão", title)
}

func TestSummarizeFallsBackWithoutCredential(t *testing.T) {
	s := NewTitleSummarizer(testCompletionConfig("http://localhost:1", ""))

	title := s.Summarize(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: chat.TextContent("oi")},
	})

	assert.Equal(t, FallbackTitle, title)
}

func TestSummarizeFallsBackOnEmptyConversation(t *testing.T) {
	s := NewTitleSummarizer(testCompletionConfig("http://localhost:1", "key"))
	assert.Equal(t, FallbackTitle, s.Summarize(context.Background(), nil))
}

func TestSummarizeFallsBackOnUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewTitleSummarizer(testCompletionConfig(server.URL, "key"))

	title := s.Summarize(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: chat.TextContent("oi")},
	})

	assert.Equal(t, FallbackTitle, title)
}

func TestSummarizeFallsBackOnEmptyTitle(t *testing.T) {
	server := titleServer(t, "")
	defer server.Close()

	s := NewTitleSummarizer(testCompletionConfig(server.URL, "key"))

	title := s.Summarize(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: chat.TextContent("oi")},
	})

	assert.Equal(t, FallbackTitle, title)
}
