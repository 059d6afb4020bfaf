package symptom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medinsight/medinsight/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type analysisRepoPG struct{ pool *pgxpool.Pool }

func NewAnalysisRepoPG(pool *pgxpool.Pool) AnalysisRepository { return &analysisRepoPG{pool: pool} }

func (r *analysisRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const analysisCols = `id, patient_id, symptoms, age, sex, result, created_at`

func (r *analysisRepoPG) scanRecord(ctx context.Context, row pgx.Row) (*AnalysisRecord, error) {
	var (
		rec              AnalysisRecord
		symptoms, result []byte
		sex              *string
	)
	err := row.Scan(&rec.ID, &rec.PatientID, &symptoms, &rec.Age, &sex, &result, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(symptoms, &rec.Symptoms); err != nil {
		return nil, fmt.Errorf("decode symptoms of %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal(result, &rec.Result); err != nil {
		return nil, fmt.Errorf("decode result of %s: %w", rec.ID, err)
	}
	if sex != nil {
		rec.Sex = *sex
	}
	rec.TenantID = db.TenantFromContext(ctx)
	return &rec, nil
}

func (r *analysisRepoPG) Create(ctx context.Context, rec *AnalysisRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	symptoms, err := json.Marshal(rec.Symptoms)
	if err != nil {
		return fmt.Errorf("encode symptoms: %w", err)
	}
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	var sex *string
	if rec.Sex != "" {
		sex = &rec.Sex
	}
	rec.TenantID = db.TenantFromContext(ctx)
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO symptom_analysis (id, patient_id, symptoms, age, sex, result, urgency_level, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, rec.PatientID, symptoms, rec.Age, sex, result, rec.Result.UrgencyLevel.String(), rec.CreatedAt)
	return err
}

func (r *analysisRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error) {
	return r.scanRecord(ctx, r.conn(ctx).QueryRow(ctx, `SELECT `+analysisCols+` FROM symptom_analysis WHERE id = $1`, id))
}

func (r *analysisRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*AnalysisRecord, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM symptom_analysis WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+analysisCols+` FROM symptom_analysis WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *analysisRepoPG) ListSince(ctx context.Context, since time.Time) ([]*AnalysisRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+analysisCols+` FROM symptom_analysis WHERE created_at >= $1 ORDER BY created_at ASC`, since)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *analysisRepoPG) collect(ctx context.Context, rows pgx.Rows) ([]*AnalysisRecord, error) {
	defer rows.Close()
	var items []*AnalysisRecord
	for rows.Next() {
		rec, err := r.scanRecord(ctx, rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}
