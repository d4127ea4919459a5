// Package audit records per-request usage metadata in MongoDB. The store is
// optional: without a configured URI every operation is a no-op, and a
// failed write never affects the request being served. Conversation content
// and attachments are never stored.
package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/plenario-app/go-chat-gateway/internal/config"
	"github.com/plenario-app/go-chat-gateway/internal/logger"
)

const (
	connectTimeout = 10 * time.Second
	writeTimeout   = 5 * time.Second
	collectionName = "usage-records"
)

// UsageRecord is one completed gateway request
type UsageRecord struct {
	RequestID   string    `bson:"request_id"`
	Endpoint    string    `bson:"endpoint"`
	Model       string    `bson:"model,omitempty"`
	Vision      bool      `bson:"supports_vision"`
	NativeAudio bool      `bson:"supports_native_audio_document"`
	Attachments int       `bson:"attachments"`
	AudioFiles  int       `bson:"audio_files"`
	StatusCode  int       `bson:"status_code"`
	DurationMs  int64     `bson:"duration_ms"`
	CreatedAt   time.Time `bson:"created_at"`
}

// Store writes usage records to MongoDB
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	enabled    bool
}

// NewStore connects to MongoDB when a URI is configured; otherwise it
// returns a disabled store whose writes are no-ops.
func NewStore(cfg config.AuditConfig) (*Store, error) {
	if !cfg.Enabled {
		return &Store{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetAppName("plenario-chat-gateway")
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Store{
		client:     client,
		collection: client.Database(cfg.DatabaseName).Collection(collectionName),
		enabled:    true,
	}, nil
}

// Enabled reports whether usage records are being persisted
func (s *Store) Enabled() bool {
	return s != nil && s.enabled
}

// Record persists one usage record asynchronously. Failures are logged and
// dropped; the audit trail is observability, not part of the request path.
func (s *Store) Record(rec UsageRecord) {
	if !s.Enabled() {
		return
	}

	rec.CreatedAt = time.Now().UTC()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		if _, err := s.collection.InsertOne(ctx, rec); err != nil {
			logger.Warn(logger.WithComponent(ctx, "audit"), "Failed to persist usage record",
				"request_id", rec.RequestID,
				"reason", err.Error(),
			)
		}
	}()
}

// HealthCheck pings the database
func (s *Store) HealthCheck(ctx context.Context) error {
	if !s.Enabled() {
		return fmt.Errorf("audit store disabled")
	}
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB
func (s *Store) Close(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Disconnect(ctx)
}
