package predictive

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StaticSource is an in-memory FactSource for the memory store backend and
// tests. It is safe for concurrent use.
type StaticSource struct {
	mu           sync.RWMutex
	appointments []AppointmentFacts
	patients     []PatientRef
}

func NewStaticSource(appts []AppointmentFacts, patients []PatientRef) *StaticSource {
	s := &StaticSource{}
	s.Add(appts...)
	s.AddPatients(patients...)
	return s
}

func (s *StaticSource) Add(appts ...AppointmentFacts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, appts...)
	sort.SliceStable(s.appointments, func(i, j int) bool {
		return s.appointments[i].ScheduledAt.Before(s.appointments[j].ScheduledAt)
	})
}

func (s *StaticSource) AddPatients(patients ...PatientRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients = append(s.patients, patients...)
}

func (s *StaticSource) Appointments(_ context.Context, from, to time.Time) ([]AppointmentFacts, error) {
	return s.filter(func(a AppointmentFacts) bool {
		return !a.ScheduledAt.Before(from) && a.ScheduledAt.Before(to)
	}), nil
}

func (s *StaticSource) Appointment(_ context.Context, id uuid.UUID) (*AppointmentFacts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appointments {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *StaticSource) PatientAppointments(_ context.Context, patientID uuid.UUID, before time.Time) ([]AppointmentFacts, error) {
	return s.filter(func(a AppointmentFacts) bool {
		return a.PatientID == patientID && a.ScheduledAt.Before(before)
	}), nil
}

func (s *StaticSource) Patients(_ context.Context) ([]PatientRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PatientRef, len(s.patients))
	copy(out, s.patients)
	return out, nil
}

func (s *StaticSource) filter(keep func(AppointmentFacts) bool) []AppointmentFacts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []AppointmentFacts
	for _, a := range s.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
