package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/plenario-app/go-chat-gateway/internal/utils"
)

// Logger levels
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Context keys
type contextKey string

const (
	RequestIDKey     contextKey = "request_id"
	CorrelationIDKey contextKey = "correlation_id"
	componentKey     contextKey = "component"
	stageKey         contextKey = "stage"
)

// Global logger instance
var (
	Logger *slog.Logger
	mu     sync.Mutex
)

// Config holds logger configuration
type Config struct {
	Level       slog.Level
	Format      string // "json" or "text"
	Output      string // "stdout", "stderr", or file path
	ServiceName string
	Environment string
}

// DefaultConfig is used when no explicit configuration is provided
var DefaultConfig = Config{
	Level:       LevelInfo,
	Format:      "json",
	Output:      "stdout",
	ServiceName: "plenario-chat-gateway",
	Environment: "development",
}

// StructuredLogEntry is the JSON envelope written for each log record
type StructuredLogEntry struct {
	Timestamp   string                 `json:"timestamp"`
	Level       string                 `json:"level"`
	Message     string                 `json:"message"`
	Service     string                 `json:"service"`
	Environment string                 `json:"environment"`
	Component   string                 `json:"component,omitempty"`
	Stage       string                 `json:"stage,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	Request     map[string]interface{} `json:"request,omitempty"`
	Error       map[string]interface{} `json:"error,omitempty"`
}

// Init initializes the global logger
func Init(config Config) error {
	var output io.Writer
	switch config.Output {
	case "stdout", "":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", config.Output, err)
		}
		output = f
	}

	var handler slog.Handler
	switch config.Format {
	case "json", "":
		handler = &StructuredJSONHandler{
			writer:      output,
			level:       config.Level,
			serviceName: config.ServiceName,
			environment: config.Environment,
		}
	default:
		handler = slog.NewTextHandler(output, &slog.HandlerOptions{Level: config.Level})
	}

	mu.Lock()
	defer mu.Unlock()
	Logger = slog.New(handler)
	return nil
}

// InitFromEnv initializes the global logger from environment variables
func InitFromEnv() error {
	config := DefaultConfig

	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		config.Level = LevelDebug
	case "INFO":
		config.Level = LevelInfo
	case "WARN", "WARNING":
		config.Level = LevelWarn
	case "ERROR":
		config.Level = LevelError
	}

	if format := os.Getenv("LOG_FORMAT"); format != "" {
		config.Format = format
	}
	if output := os.Getenv("LOG_OUTPUT"); output != "" {
		config.Output = output
	}
	if name := os.Getenv("SERVICE_NAME"); name != "" {
		config.ServiceName = name
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		config.Environment = env
	}

	return Init(config)
}

// StructuredJSONHandler writes records in the structured envelope format
type StructuredJSONHandler struct {
	writer      io.Writer
	level       slog.Level
	serviceName string
	environment string
	writeMu     sync.Mutex
}

func (h *StructuredJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *StructuredJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }

func (h *StructuredJSONHandler) WithGroup(name string) slog.Handler { return h }

func (h *StructuredJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := StructuredLogEntry{
		Timestamp:   r.Time.UTC().Format(time.RFC3339),
		Level:       r.Level.String(),
		Message:     r.Message,
		Service:     h.serviceName,
		Environment: h.environment,
	}

	if ctx != nil {
		if component, ok := ctx.Value(componentKey).(string); ok {
			entry.Component = component
		}
		if stage, ok := ctx.Value(stageKey).(string); ok {
			entry.Stage = stage
		}
		if requestID := ctx.Value(RequestIDKey); requestID != nil {
			entry.Request = map[string]interface{}{"request_id": requestID}
		}
		if correlationID := ctx.Value(CorrelationIDKey); correlationID != nil {
			if entry.Request == nil {
				entry.Request = make(map[string]interface{})
			}
			entry.Request["correlation_id"] = correlationID
		}
	}

	r.Attrs(func(a slog.Attr) bool {
		key := a.Key
		value := a.Value.Any()

		if key == "error" {
			if entry.Error == nil {
				entry.Error = make(map[string]interface{})
			}
			if err, ok := value.(error); ok {
				entry.Error["message"] = err.Error()
				entry.Error["type"] = fmt.Sprintf("%T", err)
			} else {
				entry.Error["message"] = fmt.Sprintf("%v", value)
			}
			return true
		}

		if entry.Attributes == nil {
			entry.Attributes = make(map[string]interface{})
		}
		entry.Attributes[key] = value
		return true
	})

	if entry.Attributes != nil {
		entry.Attributes = utils.TruncateBase64InData(entry.Attributes).(map[string]interface{})
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	_, err = fmt.Fprintln(h.writer, string(data))
	return err
}

// WithComponent tags the context with a component name for subsequent logs
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithStage tags the context with a processing stage for subsequent logs
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKey, stage)
}

func logger() *slog.Logger {
	mu.Lock()
	l := Logger
	mu.Unlock()
	if l == nil {
		_ = Init(DefaultConfig)
		mu.Lock()
		l = Logger
		mu.Unlock()
	}
	return l
}

// Debug logs a debug message with the context's component/stage/request tags
func Debug(ctx context.Context, msg string, args ...any) {
	logger().DebugContext(ctx, msg, args...)
}

// Info logs an informational message
func Info(ctx context.Context, msg string, args ...any) {
	logger().InfoContext(ctx, msg, args...)
}

// Warn logs a warning message
func Warn(ctx context.Context, msg string, args ...any) {
	logger().WarnContext(ctx, msg, args...)
}

// Error logs an error with its message and type extracted into the error section
func Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err)
	}
	logger().ErrorContext(ctx, msg, args...)
}
