package predictive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medinsight/medinsight/internal/platform/cache"
	"github.com/medinsight/medinsight/internal/platform/db"
	"github.com/medinsight/medinsight/internal/platform/metrics"
)

var (
	ErrNotFound   = errors.New("appointment not found")
	ErrValidation = errors.New("invalid analytics request")
)

const (
	defaultPeakDays  = 90
	maxLookbackDays  = 365
	maxOutbreakDays  = 90
	upcomingDays     = 7
	dashboardTopRisk = 10
	oneDay           = 24 * time.Hour
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NoShowRequest carries inline appointment facts for a stateless assessment.
type NoShowRequest struct {
	Appointment AppointmentFacts `json:"appointment"`
	History     PatientHistory   `json:"history"`
}

func (r NoShowRequest) Validate() error {
	if r.Appointment.ScheduledAt.IsZero() {
		return validationError("appointment.scheduled_at is required")
	}
	if r.Appointment.Fee < 0 {
		return validationError("appointment.fee must not be negative")
	}
	if r.History.TotalAppointments < 0 || r.History.NoShows < 0 {
		return validationError("history counts must not be negative")
	}
	if r.History.NoShows > r.History.TotalAppointments {
		return validationError("history.no_shows exceeds history.total_appointments")
	}
	return nil
}

// ForecastRequest carries an inline daily revenue series.
type ForecastRequest struct {
	Series     []RevenuePoint `json:"series"`
	PeriodDays int            `json:"period_days"`
}

// NoShowSummary condenses the risk of upcoming appointments.
type NoShowSummary struct {
	Upcoming           int          `json:"upcoming"`
	High               int          `json:"high"`
	Medium             int          `json:"medium"`
	Low                int          `json:"low"`
	AverageProbability float64      `json:"average_probability"`
	HighestRisk        []NoShowRisk `json:"highest_risk"`
}

// Dashboard bundles every analytics view for one tenant.
type Dashboard struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Revenue     RevenueForecast   `json:"revenue"`
	PeakHours   PeakAnalysis      `json:"peak_hours"`
	Outbreaks   OutbreakReport    `json:"outbreaks"`
	Retention   RetentionSnapshot `json:"retention"`
	NoShow      NoShowSummary     `json:"no_show"`
}

// Service runs the analytics functions against the configured fact source
// and analysis feed.
type Service struct {
	facts    FactSource
	feed     AnalysisFeed
	cache    cache.Cache
	cacheTTL time.Duration
	tunables Tunables
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(facts FactSource, feed AnalysisFeed, c cache.Cache, cacheTTL time.Duration, t Tunables, logger zerolog.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		facts:    facts,
		feed:     feed,
		cache:    c,
		cacheTTL: cacheTTL,
		tunables: t.withDefaults(),
		logger:   logger.With().Str("component", "predictive").Logger(),
		now:      time.Now,
	}
}

func (s *Service) Tunables() Tunables { return s.tunables }

func (s *Service) AssessNoShow(_ context.Context, req NoShowRequest) (NoShowRisk, error) {
	if err := req.Validate(); err != nil {
		return NoShowRisk{}, err
	}
	risk := PredictNoShow(req.Appointment, req.History, s.now(), s.tunables)
	metrics.RecordNoShowAssessment(string(risk.RiskLevel))
	return risk, nil
}

// NoShowForAppointment assesses a stored appointment using the patient's
// settled appointments before it as history.
func (s *Service) NoShowForAppointment(ctx context.Context, id uuid.UUID) (NoShowRisk, error) {
	appt, err := s.facts.Appointment(ctx, id)
	if err != nil {
		return NoShowRisk{}, err
	}
	prior, err := s.facts.PatientAppointments(ctx, appt.PatientID, appt.ScheduledAt)
	if err != nil {
		s.logger.Error().Err(err).Str("patient_id", appt.PatientID.String()).Msg("failed to load appointment history")
		return NoShowRisk{}, fmt.Errorf("load history: %w", err)
	}
	history := HistoryBefore(prior, appt.PatientID, appt.ScheduledAt)
	risk := PredictNoShow(*appt, history, s.now(), s.tunables)
	metrics.RecordNoShowAssessment(string(risk.RiskLevel))
	return risk, nil
}

func (s *Service) validPeriod(period int) (int, error) {
	if period == 0 {
		return s.tunables.ForecastPeriodDays, nil
	}
	if period < 1 || period > maxLookbackDays {
		return 0, validationError("period must be between 1 and %d days", maxLookbackDays)
	}
	return period, nil
}

// ForecastFromSeries forecasts an inline series. Points are sorted by date
// first; negative revenue is rejected.
func (s *Service) ForecastFromSeries(req ForecastRequest) (RevenueForecast, error) {
	period, err := s.validPeriod(req.PeriodDays)
	if err != nil {
		return RevenueForecast{}, err
	}
	series := make([]RevenuePoint, len(req.Series))
	copy(series, req.Series)
	for i, p := range series {
		if p.Revenue < 0 {
			return RevenueForecast{}, validationError("series[%d].revenue must not be negative", i)
		}
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	f := ForecastRevenue(series, period)
	metrics.RecordRevenueForecast(string(f.Trend))
	return f, nil
}

// ForecastRevenue derives the daily series of the trailing period from the
// fact source and forecasts the next period.
func (s *Service) ForecastRevenue(ctx context.Context, period int) (RevenueForecast, error) {
	period, err := s.validPeriod(period)
	if err != nil {
		return RevenueForecast{}, err
	}
	now := s.now()
	appts, err := s.facts.Appointments(ctx, now.Add(-time.Duration(period)*oneDay), now)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load appointments for forecast")
		return RevenueForecast{}, fmt.Errorf("load appointments: %w", err)
	}
	f := ForecastRevenue(DailyRevenueSeries(appts), period)
	metrics.RecordRevenueForecast(string(f.Trend))
	return f, nil
}

// PeakHours analyzes non-cancelled appointments of the trailing days.
func (s *Service) PeakHours(ctx context.Context, days int) (PeakAnalysis, error) {
	if days == 0 {
		days = defaultPeakDays
	}
	if days < 1 || days > maxLookbackDays {
		return PeakAnalysis{}, validationError("days must be between 1 and %d", maxLookbackDays)
	}
	now := s.now()
	appts, err := s.facts.Appointments(ctx, now.Add(-time.Duration(days)*oneDay), now)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load appointments for peak analysis")
		return PeakAnalysis{}, fmt.Errorf("load appointments: %w", err)
	}
	kept := appts[:0:0]
	for _, a := range appts {
		if a.Status != StatusCancelled {
			kept = append(kept, a)
		}
	}
	return AnalyzePeakHours(kept), nil
}

func (s *Service) Outbreaks(ctx context.Context, window int) (OutbreakReport, error) {
	if window == 0 {
		window = s.tunables.OutbreakWindowDays
	}
	if window < 1 || window > maxOutbreakDays {
		return OutbreakReport{}, validationError("window must be between 1 and %d days", maxOutbreakDays)
	}
	now := s.now()
	records, err := s.feed.AnalysisRecordsSince(ctx, now.Add(-time.Duration(window)*oneDay))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load symptom analyses")
		return OutbreakReport{}, fmt.Errorf("load analyses: %w", err)
	}
	report := DetectOutbreakPatterns(records, window, now, s.tunables)
	if report.Alert != "" {
		top := report.Patterns[0]
		metrics.RecordOutbreakAlert(top.Disease)
		s.logger.Warn().
			Str("tenant", db.TenantFromContext(ctx)).
			Str("disease", top.Disease).
			Int("cases", top.Cases).
			Int("analyses", report.TotalAnalyses).
			Msg(report.Alert)
	}
	return report, nil
}

// Retention classifies every patient by their latest non-cancelled
// appointment up to now.
func (s *Service) Retention(ctx context.Context) (RetentionSnapshot, error) {
	patients, err := s.facts.Patients(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load patients")
		return RetentionSnapshot{}, fmt.Errorf("load patients: %w", err)
	}
	now := s.now()
	appts, err := s.facts.Appointments(ctx, time.Time{}, now)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load appointments for retention")
		return RetentionSnapshot{}, fmt.Errorf("load appointments: %w", err)
	}
	kept := appts[:0:0]
	for _, a := range appts {
		if a.Status != StatusCancelled {
			kept = append(kept, a)
		}
	}
	return AnalyzePatientRetention(patients, kept, now, s.tunables), nil
}

// UpcomingNoShow assesses scheduled appointments of the next week.
func (s *Service) UpcomingNoShow(ctx context.Context) (NoShowSummary, error) {
	now := s.now()
	appts, err := s.facts.Appointments(ctx, now, now.Add(upcomingDays*oneDay))
	if err != nil {
		return NoShowSummary{}, fmt.Errorf("load upcoming appointments: %w", err)
	}

	var sum NoShowSummary
	var risks []NoShowRisk
	var total float64
	for _, a := range appts {
		if a.Status != StatusScheduled {
			continue
		}
		prior, err := s.facts.PatientAppointments(ctx, a.PatientID, a.ScheduledAt)
		if err != nil {
			return NoShowSummary{}, fmt.Errorf("load history: %w", err)
		}
		r := PredictNoShow(a, HistoryBefore(prior, a.PatientID, a.ScheduledAt), now, s.tunables)
		sum.Upcoming++
		total += r.Probability
		switch r.RiskLevel {
		case RiskHigh:
			sum.High++
		case RiskMedium:
			sum.Medium++
		default:
			sum.Low++
		}
		risks = append(risks, r)
	}
	if sum.Upcoming > 0 {
		sum.AverageProbability = total / float64(sum.Upcoming)
	}
	sort.SliceStable(risks, func(i, j int) bool { return risks[i].Probability > risks[j].Probability })
	if len(risks) > dashboardTopRisk {
		risks = risks[:dashboardTopRisk]
	}
	sum.HighestRisk = risks
	if sum.HighestRisk == nil {
		sum.HighestRisk = []NoShowRisk{}
	}
	return sum, nil
}

func dashboardKey(ctx context.Context) string {
	tenant := db.TenantFromContext(ctx)
	if tenant == "" {
		tenant = "default"
	}
	return cache.Key(tenant, "dashboard")
}

// Dashboard computes every view with default parameters. Results are cached
// per tenant for the configured TTL; cache failures only log.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	key := dashboardKey(ctx)
	var cached Dashboard
	hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("dashboard cache read failed")
	}
	if hit {
		return &cached, nil
	}

	d := &Dashboard{GeneratedAt: s.now().UTC()}
	if d.Revenue, err = s.ForecastRevenue(ctx, 0); err != nil {
		return nil, err
	}
	if d.PeakHours, err = s.PeakHours(ctx, 0); err != nil {
		return nil, err
	}
	if d.Outbreaks, err = s.Outbreaks(ctx, 0); err != nil {
		return nil, err
	}
	if d.Retention, err = s.Retention(ctx); err != nil {
		return nil, err
	}
	if d.NoShow, err = s.UpcomingNoShow(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to assess upcoming appointments")
		return nil, err
	}

	if s.cacheTTL > 0 {
		if err := cache.SetJSON(ctx, s.cache, key, d, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("dashboard cache write failed")
		}
	}
	return d, nil
}

// InvalidateDashboard drops the cached dashboard of the current tenant.
func (s *Service) InvalidateDashboard(ctx context.Context) error {
	return s.cache.Delete(ctx, dashboardKey(ctx))
}
