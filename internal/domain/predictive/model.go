package predictive

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel buckets a no-show probability.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Trend labels the direction of a revenue series.
type Trend string

const (
	TrendGrowing          Trend = "growing"
	TrendStable           Trend = "stable"
	TrendDeclining        Trend = "declining"
	TrendInsufficientData Trend = "insufficient_data"
)

// RetentionStatus classifies a patient by time since their last appointment.
type RetentionStatus string

const (
	RetentionActive RetentionStatus = "active"
	RetentionAtRisk RetentionStatus = "at_risk"
	RetentionLost   RetentionStatus = "lost"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

var validStatuses = map[AppointmentStatus]bool{
	StatusScheduled: true, StatusCompleted: true, StatusCancelled: true, StatusNoShow: true,
}

func (s AppointmentStatus) Valid() bool { return validStatuses[s] }

// AppointmentFacts is the read-only view of an appointment the engine needs.
// ScheduledAt keeps the clinic's location so hour and weekday are local.
type AppointmentFacts struct {
	ID          uuid.UUID         `json:"id"`
	PatientID   uuid.UUID         `json:"patient_id"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Status      AppointmentStatus `json:"status"`
	Fee         float64           `json:"fee"`
	Paid        bool              `json:"paid"`
}

// Revenue is the fee collected for the appointment.
func (a AppointmentFacts) Revenue() float64 {
	if !a.Paid {
		return 0
	}
	return a.Fee
}

// PatientHistory summarizes a patient's earlier appointments.
type PatientHistory struct {
	TotalAppointments int `json:"total_appointments"`
	NoShows           int `json:"no_shows"`
}

// NoShowRate returns the share of earlier appointments missed, as a percent.
func (h PatientHistory) NoShowRate() float64 {
	if h.TotalAppointments <= 0 {
		return 0
	}
	return float64(h.NoShows) / float64(h.TotalAppointments) * 100
}

// RiskFactors is the explanation attached to a no-show prediction. Each
// contribution is in probability points.
type RiskFactors struct {
	HistoricalNoShowRate float64 `json:"historical_no_show_rate"`
	HistoryContribution  float64 `json:"history_contribution"`
	LeadTimeDays         int     `json:"lead_time_days"`
	LeadTimeContribution float64 `json:"lead_time_contribution"`
	ScheduledHour        int     `json:"scheduled_hour"`
	OffHours             bool    `json:"off_hours"`
	TimeContribution     float64 `json:"time_contribution"`
	Weekday              string  `json:"weekday"`
	DayContribution      float64 `json:"day_contribution"`
	Unpaid               bool    `json:"unpaid"`
	PaymentContribution  float64 `json:"payment_contribution"`
}

type NoShowRisk struct {
	AppointmentID *uuid.UUID  `json:"appointment_id,omitempty"`
	Probability   float64     `json:"probability"`
	RiskLevel     RiskLevel   `json:"risk_level"`
	Factors       RiskFactors `json:"factors"`
}

type RevenuePoint struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
}

type RevenueForecast struct {
	ForecastAmount  float64 `json:"forecast_amount"`
	DailyAverage    float64 `json:"daily_average"`
	Trend           Trend   `json:"trend"`
	TrendPercentage float64 `json:"trend_percentage"`
	Confidence      float64 `json:"confidence"`
	PeriodDays      int     `json:"period_days"`
	DataPoints      int     `json:"data_points"`
}

type Bucket struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type HourlyBucket struct {
	Hour int `json:"hour"`
	Bucket
}

type DailyBucket struct {
	Day     int    `json:"day"`
	DayName string `json:"day_name"`
	Bucket
}

type PeakAnalysis struct {
	PeakHour           int            `json:"peak_hour"`
	PeakDay            int            `json:"peak_day"`
	PeakDayName        string         `json:"peak_day_name"`
	TotalAppointments  int            `json:"total_appointments"`
	HourlyDistribution []HourlyBucket `json:"hourly_distribution"`
	DailyDistribution  []DailyBucket  `json:"daily_distribution"`
}

// PredictionSummary is the part of a stored symptom prediction outbreak
// detection looks at.
type PredictionSummary struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
}

// AnalysisRecord is a stored symptom analysis as seen by outbreak detection.
type AnalysisRecord struct {
	ID          uuid.UUID           `json:"id"`
	CreatedAt   time.Time           `json:"created_at"`
	Predictions []PredictionSummary `json:"predictions"`
}

type DiseasePattern struct {
	Disease    string  `json:"disease"`
	Cases      int     `json:"cases"`
	Percentage float64 `json:"percentage"`
}

type OutbreakReport struct {
	Patterns      []DiseasePattern `json:"patterns"`
	Alert         string           `json:"alert,omitempty"`
	TotalAnalyses int              `json:"total_analyses"`
	WindowDays    int              `json:"window_days"`
}

type PatientRef struct {
	ID uuid.UUID `json:"id"`
}

type RetentionSnapshot struct {
	TotalPatients  int     `json:"total_patients"`
	ActivePatients int     `json:"active_patients"`
	AtRiskPatients int     `json:"at_risk_patients"`
	LostPatients   int     `json:"lost_patients"`
	RetentionRate  float64 `json:"retention_rate"`
}
