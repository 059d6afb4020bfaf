package predictive

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// PredictNoShow estimates the probability, 0 to 100, that the patient misses
// the appointment. Each factor adds points and the total is clamped.
func PredictNoShow(appt AppointmentFacts, history PatientHistory, now time.Time, t Tunables) NoShowRisk {
	t = t.withDefaults()
	var f RiskFactors

	f.HistoricalNoShowRate = history.NoShowRate()
	f.HistoryContribution = f.HistoricalNoShowRate * t.NoShowHistoryWeight

	f.LeadTimeDays = int(math.Ceil(appt.ScheduledAt.Sub(now).Hours() / 24))
	switch {
	case f.LeadTimeDays > t.LongLeadDays:
		f.LeadTimeContribution = t.LongLeadPoints
	case f.LeadTimeDays < t.ShortLeadDays:
		f.LeadTimeContribution = t.ShortLeadPoints
	}

	f.ScheduledHour = appt.ScheduledAt.Hour()
	minuteOfDay := f.ScheduledHour*60 + appt.ScheduledAt.Minute()
	if f.ScheduledHour < t.OpenHour || minuteOfDay > t.CloseHour*60 {
		f.OffHours = true
		f.TimeContribution = t.OffHoursPoints
	}

	day := appt.ScheduledAt.Weekday()
	f.Weekday = day.String()
	switch day {
	case time.Saturday, time.Sunday:
		f.DayContribution = t.WeekendPoints
	case time.Monday:
		f.DayContribution = t.MondayPoints
	}

	if !appt.Paid {
		f.Unpaid = true
		f.PaymentContribution = t.UnpaidPoints
	}

	p := f.HistoryContribution + f.LeadTimeContribution + f.TimeContribution + f.DayContribution + f.PaymentContribution
	p = clamp(p, 0, 100)

	risk := NoShowRisk{Probability: p, RiskLevel: riskLevel(p, t), Factors: f}
	if appt.ID != uuid.Nil {
		id := appt.ID
		risk.AppointmentID = &id
	}
	return risk
}

func riskLevel(p float64, t Tunables) RiskLevel {
	switch {
	case p > t.HighRiskAbove:
		return RiskHigh
	case p > t.MediumRiskAbove:
		return RiskMedium
	default:
		return RiskLow
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
