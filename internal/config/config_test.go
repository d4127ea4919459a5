package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearGatewayEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"SERVER_HOST", "SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
		"COMPLETION_BASE_URL", "COMPLETION_API_KEY", "COMPLETION_DEFAULT_MODEL", "TITLE_MODEL", "COMPLETION_TIMEOUT",
		"TRANSCRIBE_BASE_URL", "TRANSCRIBE_API_KEY", "TRANSCRIBE_MODEL",
		"MONGODB_URI", "MONGODB_DATABASE",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearGatewayEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8084, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Duration(0), cfg.Server.WriteTimeout, "a write deadline would sever long streams")

	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/openai", cfg.Completion.BaseURL)
	assert.Empty(t, cfg.Completion.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Completion.DefaultModel)
	assert.Equal(t, "gemini-2.0-flash-lite", cfg.Completion.TitleModel)
	assert.Equal(t, 600*time.Second, cfg.Completion.Timeout)

	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.Transcribe.BaseURL)
	assert.Equal(t, "whisper-large-v3-turbo", cfg.Transcribe.Model)

	assert.False(t, cfg.Audit.Enabled)
}

func TestFromEnvMissingCompletionKeyIsNotFatal(t *testing.T) {
	// The gateway must boot without a credential; only the streaming
	// endpoint rejects requests at call time.
	clearGatewayEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Empty(t, cfg.Completion.APIKey)
}

func TestFromEnvOverrides(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("COMPLETION_API_KEY", "secret")
	t.Setenv("COMPLETION_DEFAULT_MODEL", "gpt-4o")
	t.Setenv("COMPLETION_TIMEOUT", "120s")
	t.Setenv("TRANSCRIBE_MODEL", "whisper-large-v3")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Completion.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Completion.DefaultModel)
	assert.Equal(t, 120*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, "whisper-large-v3", cfg.Transcribe.Model)
}

func TestFromEnvTranscribeKeyFallsBackToCompletionKey(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("COMPLETION_API_KEY", "shared-key")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "shared-key", cfg.Transcribe.APIKey)

	t.Setenv("TRANSCRIBE_API_KEY", "dedicated-key")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "dedicated-key", cfg.Transcribe.APIKey)
}

func TestFromEnvAuditEnabledByURI(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, "plenario-gateway", cfg.Audit.DatabaseName)
}

func TestValidateRejectsBadValues(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("COMPLETION_BASE_URL", "not a url")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion")
}

func TestLoadEnvFileMissingIsNotError(t *testing.T) {
	assert.NoError(t, LoadEnvFile("does-not-exist.env"))
}
