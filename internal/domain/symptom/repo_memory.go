package symptom

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medinsight/medinsight/internal/platform/db"
)

type analysisRepoMemory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*AnalysisRecord
}

// NewAnalysisRepoMemory keeps records in process memory. Used by the
// memory store backend and the CLI.
func NewAnalysisRepoMemory() AnalysisRepository {
	return &analysisRepoMemory{records: make(map[uuid.UUID]*AnalysisRecord)}
}

func (r *analysisRepoMemory) Create(ctx context.Context, rec *AnalysisRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.TenantID = db.TenantFromContext(ctx)
	cp := *rec
	r.mu.Lock()
	r.records[rec.ID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *analysisRepoMemory) GetByID(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok || rec.TenantID != db.TenantFromContext(ctx) {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *analysisRepoMemory) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*AnalysisRecord, int, error) {
	all := r.filter(ctx, func(rec *AnalysisRecord) bool {
		return rec.PatientID != nil && *rec.PatientID == patientID
	})
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= total {
		return []*AnalysisRecord{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *analysisRepoMemory) ListSince(ctx context.Context, since time.Time) ([]*AnalysisRecord, error) {
	out := r.filter(ctx, func(rec *AnalysisRecord) bool { return !rec.CreatedAt.Before(since) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *analysisRepoMemory) filter(ctx context.Context, keep func(*AnalysisRecord) bool) []*AnalysisRecord {
	tenant := db.TenantFromContext(ctx)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*AnalysisRecord
	for _, rec := range r.records {
		if rec.TenantID == tenant && keep(rec) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out
}
