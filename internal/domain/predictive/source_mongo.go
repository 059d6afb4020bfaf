package predictive

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

type appointmentDoc struct {
	ID          string    `bson:"_id"`
	TenantID    string    `bson:"tenant_id"`
	PatientID   string    `bson:"patient_id"`
	ScheduledAt time.Time `bson:"scheduled_at"`
	Status      string    `bson:"status"`
	Fee         float64   `bson:"fee"`
	Paid        bool      `bson:"paid"`
}

type patientDoc struct {
	ID string `bson:"_id"`
}

type factSourceMongo struct {
	appointments *mongo.Collection
	patients     *mongo.Collection
	loc          *time.Location
}

// NewFactSourceMongo reads the appointments and patients collections written
// by the scheduling service. Documents carry a tenant_id and string ids.
func NewFactSourceMongo(database *mongo.Database, loc *time.Location) FactSource {
	if loc == nil {
		loc = time.UTC
	}
	return &factSourceMongo{
		appointments: database.Collection("appointments"),
		patients:     database.Collection("patients"),
		loc:          loc,
	}
}

func (s *factSourceMongo) toFacts(d appointmentDoc) (AppointmentFacts, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return AppointmentFacts{}, fmt.Errorf("appointment id %q: %w", d.ID, err)
	}
	pid, err := uuid.Parse(d.PatientID)
	if err != nil {
		return AppointmentFacts{}, fmt.Errorf("appointment %s patient id %q: %w", d.ID, d.PatientID, err)
	}
	return AppointmentFacts{
		ID:          id,
		PatientID:   pid,
		ScheduledAt: d.ScheduledAt.In(s.loc),
		Status:      AppointmentStatus(d.Status),
		Fee:         d.Fee,
		Paid:        d.Paid,
	}, nil
}

func (s *factSourceMongo) Appointments(ctx context.Context, from, to time.Time) ([]AppointmentFacts, error) {
	filter := bson.M{
		"tenant_id":    db.TenantFromContext(ctx),
		"scheduled_at": bson.M{"$gte": from, "$lt": to},
	}
	return s.find(ctx, filter)
}

func (s *factSourceMongo) Appointment(ctx context.Context, id uuid.UUID) (*AppointmentFacts, error) {
	var d appointmentDoc
	filter := bson.M{"_id": id.String(), "tenant_id": db.TenantFromContext(ctx)}
	if err := s.appointments.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a, err := s.toFacts(d)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *factSourceMongo) PatientAppointments(ctx context.Context, patientID uuid.UUID, before time.Time) ([]AppointmentFacts, error) {
	filter := bson.M{
		"tenant_id":    db.TenantFromContext(ctx),
		"patient_id":   patientID.String(),
		"scheduled_at": bson.M{"$lt": before},
	}
	return s.find(ctx, filter)
}

func (s *factSourceMongo) Patients(ctx context.Context) ([]PatientRef, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := s.patients.Find(ctx, bson.M{"tenant_id": db.TenantFromContext(ctx)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []patientDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	out := make([]PatientRef, 0, len(docs))
	for _, d := range docs {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return nil, fmt.Errorf("patient id %q: %w", d.ID, err)
		}
		out = append(out, PatientRef{ID: id})
	}
	return out, nil
}

func (s *factSourceMongo) find(ctx context.Context, filter bson.M) ([]AppointmentFacts, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_at", Value: 1}})
	cursor, err := s.appointments.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []appointmentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	out := make([]AppointmentFacts, 0, len(docs))
	for _, d := range docs {
		a, err := s.toFacts(d)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
