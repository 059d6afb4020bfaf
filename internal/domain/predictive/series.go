package predictive

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DailyRevenueSeries sums paid appointment fees per calendar day, in each
// appointment's own location, oldest first. Days without revenue are not
// filled in.
func DailyRevenueSeries(appts []AppointmentFacts) []RevenuePoint {
	byDay := make(map[string]*RevenuePoint)
	for _, a := range appts {
		if !a.Paid || a.Status == StatusCancelled {
			continue
		}
		key := a.ScheduledAt.Format(time.DateOnly)
		p, ok := byDay[key]
		if !ok {
			y, m, d := a.ScheduledAt.Date()
			p = &RevenuePoint{Date: time.Date(y, m, d, 0, 0, 0, 0, a.ScheduledAt.Location())}
			byDay[key] = p
		}
		p.Revenue += a.Fee
	}

	series := make([]RevenuePoint, 0, len(byDay))
	for _, p := range byDay {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series
}

// HistoryBefore summarizes a patient's settled appointments scheduled before
// the cutoff. Cancelled and still scheduled appointments are not counted.
func HistoryBefore(appts []AppointmentFacts, patientID uuid.UUID, before time.Time) PatientHistory {
	var h PatientHistory
	for _, a := range appts {
		if a.PatientID != patientID || !a.ScheduledAt.Before(before) {
			continue
		}
		switch a.Status {
		case StatusCompleted:
			h.TotalAppointments++
		case StatusNoShow:
			h.TotalAppointments++
			h.NoShows++
		}
	}
	return h
}
