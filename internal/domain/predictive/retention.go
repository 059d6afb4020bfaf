package predictive

import (
	"time"

	"github.com/google/uuid"
)

// ClassifyRetention maps whole days since the last appointment to a status:
// active below RetentionActiveDays, lost above RetentionLostDays, at risk in
// between (both bounds inclusive).
func ClassifyRetention(daysSinceLast int, t Tunables) RetentionStatus {
	t = t.withDefaults()
	switch {
	case daysSinceLast < t.RetentionActiveDays:
		return RetentionActive
	case daysSinceLast <= t.RetentionLostDays:
		return RetentionAtRisk
	default:
		return RetentionLost
	}
}

// AnalyzePatientRetention classifies every patient that has at least one
// appointment. Appointments of patients not listed are ignored.
func AnalyzePatientRetention(patients []PatientRef, appts []AppointmentFacts, now time.Time, t Tunables) RetentionSnapshot {
	t = t.withDefaults()
	last := make(map[uuid.UUID]time.Time, len(patients))
	for _, p := range patients {
		last[p.ID] = time.Time{}
	}
	for _, a := range appts {
		prev, known := last[a.PatientID]
		if !known {
			continue
		}
		if a.ScheduledAt.After(prev) {
			last[a.PatientID] = a.ScheduledAt
		}
	}

	var snap RetentionSnapshot
	for _, ts := range last {
		if ts.IsZero() {
			continue
		}
		snap.TotalPatients++
		days := int(now.Sub(ts).Hours() / 24)
		switch ClassifyRetention(days, t) {
		case RetentionActive:
			snap.ActivePatients++
		case RetentionAtRisk:
			snap.AtRiskPatients++
		default:
			snap.LostPatients++
		}
	}
	if snap.TotalPatients > 0 {
		snap.RetentionRate = float64(snap.ActivePatients) / float64(snap.TotalPatients) * 100
	}
	return snap
}
