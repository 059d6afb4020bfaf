package predictive

import (
	"context"
	"errors"
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

type factSourcePG struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewFactSourcePG reads the appointment and patient tables of the tenant
// schema. Scheduled times are converted to loc, the clinic's time zone.
func NewFactSourcePG(pool *pgxpool.Pool, loc *time.Location) FactSource {
	if loc == nil {
		loc = time.UTC
	}
	return &factSourcePG{pool: pool, loc: loc}
}

func (s *factSourcePG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return s.pool
}

const appointmentCols = `id, patient_id, scheduled_at, status, fee::float8, paid`

func (s *factSourcePG) scanAppointment(row pgx.Row) (*AppointmentFacts, error) {
	var a AppointmentFacts
	var status string
	if err := row.Scan(&a.ID, &a.PatientID, &a.ScheduledAt, &status, &a.Fee, &a.Paid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.Status = AppointmentStatus(status)
	a.ScheduledAt = a.ScheduledAt.In(s.loc)
	return &a, nil
}

func (s *factSourcePG) Appointments(ctx context.Context, from, to time.Time) ([]AppointmentFacts, error) {
	rows, err := s.conn(ctx).Query(ctx, `SELECT `+appointmentCols+` FROM appointment
		WHERE scheduled_at >= $1 AND scheduled_at < $2 ORDER BY scheduled_at`, from, to)
	if err != nil {
		return nil, err
	}
	return s.collect(rows)
}

func (s *factSourcePG) Appointment(ctx context.Context, id uuid.UUID) (*AppointmentFacts, error) {
	return s.scanAppointment(s.conn(ctx).QueryRow(ctx, `SELECT `+appointmentCols+` FROM appointment WHERE id = $1`, id))
}

func (s *factSourcePG) PatientAppointments(ctx context.Context, patientID uuid.UUID, before time.Time) ([]AppointmentFacts, error) {
	rows, err := s.conn(ctx).Query(ctx, `SELECT `+appointmentCols+` FROM appointment
		WHERE patient_id = $1 AND scheduled_at < $2 ORDER BY scheduled_at`, patientID, before)
	if err != nil {
		return nil, err
	}
	return s.collect(rows)
}

func (s *factSourcePG) Patients(ctx context.Context) ([]PatientRef, error) {
	rows, err := s.conn(ctx).Query(ctx, `SELECT id FROM patient ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PatientRef
	for rows.Next() {
		var p PatientRef
		if err := rows.Scan(&p.ID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *factSourcePG) collect(rows pgx.Rows) ([]AppointmentFacts, error) {
	defer rows.Close()
	var out []AppointmentFacts
	for rows.Next() {
		a, err := s.scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
