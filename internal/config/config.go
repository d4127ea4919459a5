package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/plenario-app/go-chat-gateway/internal/utils"
)

// Config holds the complete gateway configuration, resolved from the
// environment at startup. The completion credential is deliberately NOT
// required here: its absence must only fail the streaming endpoint, at
// request time.
type Config struct {
	Server     ServerConfig
	Completion CompletionConfig
	Transcribe TranscribeConfig
	Audit      AuditConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string        `validate:"required"`
	Port         int           `validate:"required,min=1,max=65535"`
	ReadTimeout  time.Duration `validate:"required"`
	// WriteTimeout stays zero by default: a server-side write deadline
	// would sever long-lived completion streams.
	WriteTimeout time.Duration
	IdleTimeout  time.Duration `validate:"required"`
}

// CompletionConfig holds upstream completion provider settings
type CompletionConfig struct {
	BaseURL      string `validate:"required,url"`
	APIKey       string
	DefaultModel string        `validate:"required"`
	TitleModel   string        `validate:"required"`
	Timeout      time.Duration `validate:"required"`
}

// TranscribeConfig holds the secondary transcription provider settings
type TranscribeConfig struct {
	BaseURL string `validate:"required,url"`
	APIKey  string
	Model   string `validate:"required"`
}

// AuditConfig holds the optional usage-audit store settings
type AuditConfig struct {
	MongoURI     string
	DatabaseName string
	Enabled      bool
}

var validate = validator.New()

// FromEnv builds the configuration from environment variables
func FromEnv() (*Config, error) {
	completionKey := utils.GetEnv("COMPLETION_API_KEY", "")
	transcribeKey := utils.GetEnv("TRANSCRIBE_API_KEY", completionKey)
	mongoURI := utils.GetEnv("MONGODB_URI", "")

	cfg := &Config{
		Server: ServerConfig{
			Host:         utils.GetEnv("SERVER_HOST", "0.0.0.0"),
			Port:         utils.GetEnvInt("SERVER_PORT", 8084),
			ReadTimeout:  utils.GetEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: utils.GetEnvDuration("SERVER_WRITE_TIMEOUT", 0),
			IdleTimeout:  utils.GetEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Completion: CompletionConfig{
			BaseURL:      utils.GetEnv("COMPLETION_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
			APIKey:       completionKey,
			DefaultModel: utils.GetEnv("COMPLETION_DEFAULT_MODEL", "gemini-2.0-flash"),
			TitleModel:   utils.GetEnv("TITLE_MODEL", "gemini-2.0-flash-lite"),
			Timeout:      utils.GetEnvDuration("COMPLETION_TIMEOUT", 600*time.Second),
		},
		Transcribe: TranscribeConfig{
			BaseURL: utils.GetEnv("TRANSCRIBE_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:  transcribeKey,
			Model:   utils.GetEnv("TRANSCRIBE_MODEL", "whisper-large-v3-turbo"),
		},
		Audit: AuditConfig{
			MongoURI:     mongoURI,
			DatabaseName: utils.GetEnv("MONGODB_DATABASE", "plenario-gateway"),
			Enabled:      mongoURI != "",
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural configuration constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c.Server); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}
	if err := validate.Struct(c.Completion); err != nil {
		return fmt.Errorf("invalid completion configuration: %w", err)
	}
	if err := validate.Struct(c.Transcribe); err != nil {
		return fmt.Errorf("invalid transcription configuration: %w", err)
	}
	return nil
}
