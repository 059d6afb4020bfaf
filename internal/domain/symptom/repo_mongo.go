package symptom

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/medinsight/medinsight/internal/platform/db"
)

const analysisCollection = "symptom_analyses"

type analysisDoc struct {
	ID        string          `bson:"_id"`
	TenantID  string          `bson:"tenant_id"`
	PatientID string          `bson:"patient_id,omitempty"`
	Symptoms  []SymptomReport `bson:"symptoms"`
	Age       *int            `bson:"age,omitempty"`
	Sex       string          `bson:"sex,omitempty"`
	Result    AnalysisResult  `bson:"result"`
	Urgency   string          `bson:"urgency_level"`
	CreatedAt time.Time       `bson:"created_at"`
}

func toDoc(rec *AnalysisRecord) analysisDoc {
	d := analysisDoc{
		ID:        rec.ID.String(),
		TenantID:  rec.TenantID,
		Symptoms:  rec.Symptoms,
		Age:       rec.Age,
		Sex:       rec.Sex,
		Result:    rec.Result,
		Urgency:   rec.Result.UrgencyLevel.String(),
		CreatedAt: rec.CreatedAt,
	}
	if rec.PatientID != nil {
		d.PatientID = rec.PatientID.String()
	}
	return d
}

func (d analysisDoc) record() (*AnalysisRecord, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis id %q: %w", d.ID, err)
	}
	rec := &AnalysisRecord{
		ID:        id,
		TenantID:  d.TenantID,
		Symptoms:  d.Symptoms,
		Age:       d.Age,
		Sex:       d.Sex,
		Result:    d.Result,
		CreatedAt: d.CreatedAt.UTC(),
	}
	if d.PatientID != "" {
		pid, err := uuid.Parse(d.PatientID)
		if err != nil {
			return nil, fmt.Errorf("invalid patient id %q: %w", d.PatientID, err)
		}
		rec.PatientID = &pid
	}
	return rec, nil
}

type analysisRepoMongo struct {
	coll *mongo.Collection
}

// NewAnalysisRepoMongo stores records in the symptom_analyses collection of
// database. Every query is scoped to the tenant found in the context.
func NewAnalysisRepoMongo(database *mongo.Database) AnalysisRepository {
	return &analysisRepoMongo{coll: database.Collection(analysisCollection)}
}

func (r *analysisRepoMongo) Create(ctx context.Context, rec *AnalysisRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.TenantID = db.TenantFromContext(ctx)
	_, err := r.coll.InsertOne(ctx, toDoc(rec))
	return err
}

func (r *analysisRepoMongo) GetByID(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error) {
	var d analysisDoc
	filter := bson.M{"_id": id.String(), "tenant_id": db.TenantFromContext(ctx)}
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d.record()
}

func (r *analysisRepoMongo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*AnalysisRecord, int, error) {
	filter := bson.M{"patient_id": patientID.String(), "tenant_id": db.TenantFromContext(ctx)}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	items, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, int(total), nil
}

func (r *analysisRepoMongo) ListSince(ctx context.Context, since time.Time) ([]*AnalysisRecord, error) {
	filter := bson.M{
		"tenant_id":  db.TenantFromContext(ctx),
		"created_at": bson.M{"$gte": since},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

func (r *analysisRepoMongo) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]*AnalysisRecord, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []analysisDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode analyses: %w", err)
	}
	items := make([]*AnalysisRecord, 0, len(docs))
	for _, d := range docs {
		rec, err := d.record()
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, nil
}
