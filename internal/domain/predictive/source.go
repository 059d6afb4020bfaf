package predictive

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FactSource reads appointment and patient facts owned by the scheduling
// system. Implementations return ErrNotFound for a missing appointment.
type FactSource interface {
	// Appointments returns appointments scheduled in [from, to).
	Appointments(ctx context.Context, from, to time.Time) ([]AppointmentFacts, error)
	Appointment(ctx context.Context, id uuid.UUID) (*AppointmentFacts, error)
	// PatientAppointments returns the patient's appointments scheduled before the cutoff.
	PatientAppointments(ctx context.Context, patientID uuid.UUID, before time.Time) ([]AppointmentFacts, error)
	Patients(ctx context.Context) ([]PatientRef, error)
}

// AnalysisFeed supplies stored symptom analyses for outbreak detection.
type AnalysisFeed interface {
	AnalysisRecordsSince(ctx context.Context, since time.Time) ([]AnalysisRecord, error)
}
