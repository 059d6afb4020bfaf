package symptom

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AnalysisRepository persists symptom analysis records. Implementations return
// ErrNotFound when a record does not exist.
type AnalysisRepository interface {
	Create(ctx context.Context, rec *AnalysisRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*AnalysisRecord, int, error)
	ListSince(ctx context.Context, since time.Time) ([]*AnalysisRecord, error)
}
