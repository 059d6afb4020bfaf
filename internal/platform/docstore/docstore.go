// Package docstore connects the MongoDB backend used when STORE_BACKEND=mongo.
package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Store owns the client and the selected database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri and pings the primary before returning.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		return nil, fmt.Errorf("mongo database name is required")
	}
	opts := options.Client().
		ApplyURI(uri).
		SetAppName("medinsight").
		SetConnectTimeout(connectTimeout)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Database() *mongo.Database { return s.db }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// IndexSpec names the indexes a collection needs.
type IndexSpec struct {
	Collection string
	Models     []mongo.IndexModel
}

func asc(fields ...string) bson.D {
	keys := make(bson.D, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return keys
}

// Indexes lists the indexes backing the repository queries: analyses by
// tenant and time or patient, appointments by tenant and time or patient,
// patients by tenant.
func Indexes() []IndexSpec {
	return []IndexSpec{
		{Collection: "symptom_analyses", Models: []mongo.IndexModel{
			{Keys: asc("tenant_id", "created_at")},
			{Keys: asc("tenant_id", "patient_id", "created_at")},
		}},
		{Collection: "appointments", Models: []mongo.IndexModel{
			{Keys: asc("tenant_id", "scheduled_at")},
			{Keys: asc("tenant_id", "patient_id", "scheduled_at")},
		}},
		{Collection: "patients", Models: []mongo.IndexModel{
			{Keys: asc("tenant_id", "created_at")},
		}},
	}
}

// EnsureIndexes creates every index from Indexes. Existing indexes with the
// same keys are left alone by the server.
func (s *Store) EnsureIndexes(ctx context.Context, logger zerolog.Logger) error {
	for _, spec := range Indexes() {
		names, err := s.db.Collection(spec.Collection).Indexes().CreateMany(ctx, spec.Models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.Collection, err)
		}
		logger.Debug().Str("collection", spec.Collection).Strs("indexes", names).Msg("indexes ensured")
	}
	return nil
}
