package predictive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medinsight/medinsight/internal/platform/cache"
	"github.com/medinsight/medinsight/internal/platform/db"
)

// ── Mocks ──

type stubFeed struct {
	records []AnalysisRecord
	err     error
	calls   int
}

func (f *stubFeed) AnalysisRecordsSince(_ context.Context, since time.Time) ([]AnalysisRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []AnalysisRecord
	for _, r := range f.records {
		if !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

type failingSource struct{ StaticSource }

var errStorage = errors.New("connection refused")

func (*failingSource) Appointments(context.Context, time.Time, time.Time) ([]AppointmentFacts, error) {
	return nil, errStorage
}

type countingSource struct {
	*StaticSource
	patientCalls int
}

func (c *countingSource) Patients(ctx context.Context) ([]PatientRef, error) {
	c.patientCalls++
	return c.StaticSource.Patients(ctx)
}

func newTestService(src FactSource, feed AnalysisFeed, c cache.Cache, ttl time.Duration) *Service {
	if feed == nil {
		feed = &stubFeed{}
	}
	svc := NewService(src, feed, c, ttl, Tunables{}, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return svc
}

// ── Tests ──

func TestService_AssessNoShow(t *testing.T) {
	svc := newTestService(NewStaticSource(nil, nil), nil, nil, 0)
	req := NoShowRequest{
		Appointment: AppointmentFacts{ScheduledAt: at(2025, 3, 19, 10, 0)},
		History:     PatientHistory{TotalAppointments: 4, NoShows: 2},
	}
	risk, err := svc.AssessNoShow(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(risk.Probability, 35) {
		t.Errorf("expected 35 (history 20 + unpaid 15), got %v", risk.Probability)
	}
}

func TestService_AssessNoShow_Validation(t *testing.T) {
	svc := newTestService(NewStaticSource(nil, nil), nil, nil, 0)
	tests := []struct {
		name string
		req  NoShowRequest
	}{
		{"missing time", NoShowRequest{}},
		{"negative fee", NoShowRequest{Appointment: AppointmentFacts{ScheduledAt: testNow, Fee: -1}}},
		{"negative history", NoShowRequest{Appointment: AppointmentFacts{ScheduledAt: testNow}, History: PatientHistory{TotalAppointments: -1}}},
		{"more no-shows than visits", NoShowRequest{Appointment: AppointmentFacts{ScheduledAt: testNow}, History: PatientHistory{TotalAppointments: 1, NoShows: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AssessNoShow(context.Background(), tt.req); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestService_NoShowForAppointment(t *testing.T) {
	pid := uuid.New()
	target := AppointmentFacts{ID: uuid.New(), PatientID: pid, ScheduledAt: at(2025, 3, 12, 10, 0), Status: StatusScheduled, Fee: 80, Paid: true}
	src := NewStaticSource([]AppointmentFacts{
		target,
		{ID: uuid.New(), PatientID: pid, ScheduledAt: at(2025, 1, 2, 10, 0), Status: StatusCompleted},
		{ID: uuid.New(), PatientID: pid, ScheduledAt: at(2025, 1, 9, 10, 0), Status: StatusCompleted},
		{ID: uuid.New(), PatientID: pid, ScheduledAt: at(2025, 1, 16, 10, 0), Status: StatusNoShow},
		{ID: uuid.New(), PatientID: pid, ScheduledAt: at(2025, 1, 23, 10, 0), Status: StatusNoShow},
		{ID: uuid.New(), PatientID: pid, ScheduledAt: at(2025, 2, 1, 10, 0), Status: StatusCancelled},
		{ID: uuid.New(), PatientID: pid, ScheduledAt: at(2025, 4, 1, 10, 0), Status: StatusNoShow},
	}, nil)
	svc := newTestService(src, nil, nil, 0)

	risk, err := svc.NoShowForAppointment(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 50% history * 0.4 + short lead time 5
	if !approx(risk.Probability, 25) {
		t.Errorf("expected 25, got %v (%+v)", risk.Probability, risk.Factors)
	}
	if risk.AppointmentID == nil || *risk.AppointmentID != target.ID {
		t.Error("expected appointment id")
	}
}

func TestService_NoShowForAppointment_NotFound(t *testing.T) {
	svc := newTestService(NewStaticSource(nil, nil), nil, nil, 0)
	if _, err := svc.NoShowForAppointment(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ForecastFromSeries(t *testing.T) {
	svc := newTestService(NewStaticSource(nil, nil), nil, nil, 0)
	pts := series(100, 100, 200, 200)
	pts[0], pts[3] = pts[3], pts[0]

	f, err := svc.ForecastFromSeries(ForecastRequest{Series: pts})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Trend != TrendGrowing || f.PeriodDays != 30 {
		t.Errorf("expected growing over 30 days after sorting, got %+v", f)
	}
	if pts[0].Revenue != 200 {
		t.Error("input series must not be reordered in place")
	}

	if _, err := svc.ForecastFromSeries(ForecastRequest{Series: series(-1)}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for negative revenue, got %v", err)
	}
	if _, err := svc.ForecastFromSeries(ForecastRequest{PeriodDays: 400}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for period, got %v", err)
	}
}

func dailyPaid(days int, fee float64) []AppointmentFacts {
	var out []AppointmentFacts
	for i := 1; i <= days; i++ {
		out = append(out, AppointmentFacts{
			ID:          uuid.New(),
			PatientID:   uuid.New(),
			ScheduledAt: testNow.Add(-time.Duration(i) * 24 * time.Hour),
			Status:      StatusCompleted,
			Fee:         fee,
			Paid:        true,
		})
	}
	return out
}

func TestService_ForecastRevenue(t *testing.T) {
	src := NewStaticSource(dailyPaid(10, 100), nil)
	src.Add(AppointmentFacts{ScheduledAt: testNow.Add(-60 * 24 * time.Hour), Fee: 5000, Paid: true, Status: StatusCompleted})
	svc := newTestService(src, nil, nil, 0)

	f, err := svc.ForecastRevenue(context.Background(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.DataPoints != 10 || f.Confidence != 100 || !approx(f.ForecastAmount, 3000) {
		t.Errorf("unexpected forecast %+v", f)
	}
}

func TestService_ForecastRevenue_StorageError(t *testing.T) {
	svc := newTestService(&failingSource{}, nil, nil, 0)
	if _, err := svc.ForecastRevenue(context.Background(), 0); !errors.Is(err, errStorage) {
		t.Errorf("expected wrapped storage error, got %v", err)
	}
}

func TestService_PeakHours(t *testing.T) {
	src := NewStaticSource([]AppointmentFacts{
		{ScheduledAt: at(2025, 3, 4, 11, 0), Status: StatusCompleted},
		{ScheduledAt: at(2025, 3, 5, 11, 0), Status: StatusCompleted},
		{ScheduledAt: at(2025, 3, 6, 15, 0), Status: StatusCancelled},
		{ScheduledAt: at(2025, 3, 6, 15, 0), Status: StatusCancelled},
		{ScheduledAt: at(2025, 3, 6, 15, 0), Status: StatusCancelled},
		{ScheduledAt: at(2024, 10, 1, 15, 0), Status: StatusCompleted},
	}, nil)
	svc := newTestService(src, nil, nil, 0)

	pa, err := svc.PeakHours(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pa.TotalAppointments != 2 || pa.PeakHour != 11 {
		t.Errorf("expected cancelled and old appointments excluded, got %+v", pa)
	}

	if _, err := svc.PeakHours(context.Background(), 500); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestService_Outbreaks(t *testing.T) {
	feed := &stubFeed{}
	for i := 0; i < 4; i++ {
		feed.records = append(feed.records, AnalysisRecord{
			ID:          uuid.New(),
			CreatedAt:   testNow.Add(-time.Hour),
			Predictions: []PredictionSummary{{Disease: "Dengue Fever", Confidence: 0.8}},
		})
	}
	feed.records = append(feed.records, AnalysisRecord{ID: uuid.New(), CreatedAt: testNow.Add(-30 * 24 * time.Hour),
		Predictions: []PredictionSummary{{Disease: "Migraine", Confidence: 0.9}}})
	svc := newTestService(NewStaticSource(nil, nil), feed, nil, 0)

	report, err := svc.Outbreaks(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalAnalyses != 4 || report.Alert == "" {
		t.Errorf("expected alert over 4 analyses, got %+v", report)
	}

	if _, err := svc.Outbreaks(context.Background(), 91); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	feed.err = errStorage
	if _, err := svc.Outbreaks(context.Background(), 7); !errors.Is(err, errStorage) {
		t.Errorf("expected storage error, got %v", err)
	}
}

func TestService_Retention(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	src := NewStaticSource([]AppointmentFacts{
		{PatientID: p1, ScheduledAt: testNow.Add(-5 * 24 * time.Hour), Status: StatusCompleted},
		{PatientID: p2, ScheduledAt: testNow.Add(-200 * 24 * time.Hour), Status: StatusCompleted},
		{PatientID: p2, ScheduledAt: testNow.Add(-2 * 24 * time.Hour), Status: StatusCancelled},
		{PatientID: p2, ScheduledAt: testNow.Add(5 * 24 * time.Hour), Status: StatusScheduled},
	}, []PatientRef{{ID: p1}, {ID: p2}})
	svc := newTestService(src, nil, nil, 0)

	snap, err := svc.Retention(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.TotalPatients != 2 || snap.ActivePatients != 1 || snap.LostPatients != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.RetentionRate != 50 {
		t.Errorf("expected 50%% retention, got %v", snap.RetentionRate)
	}
}

func TestService_UpcomingNoShow(t *testing.T) {
	pid := uuid.New()
	src := NewStaticSource([]AppointmentFacts{
		{ID: uuid.New(), PatientID: pid, ScheduledAt: at(2025, 3, 11, 10, 0), Status: StatusScheduled, Paid: true},
		{ID: uuid.New(), PatientID: pid, ScheduledAt: at(2025, 3, 15, 19, 0), Status: StatusScheduled},
		{ID: uuid.New(), PatientID: pid, ScheduledAt: at(2025, 3, 12, 10, 0), Status: StatusCancelled},
		{ID: uuid.New(), PatientID: pid, ScheduledAt: at(2025, 3, 30, 10, 0), Status: StatusScheduled},
	}, nil)
	svc := newTestService(src, nil, nil, 0)

	sum, err := svc.UpcomingNoShow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Upcoming != 2 {
		t.Fatalf("expected 2 upcoming scheduled appointments, got %d", sum.Upcoming)
	}
	// Saturday evening unpaid: 8 + 10 + 15 = 33; Tuesday next day: 5.
	if len(sum.HighestRisk) != 2 || !approx(sum.HighestRisk[0].Probability, 33) {
		t.Errorf("expected riskiest first, got %+v", sum.HighestRisk)
	}
	if !approx(sum.AverageProbability, 19) || sum.Low != 2 {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestService_DashboardCached(t *testing.T) {
	src := &countingSource{StaticSource: NewStaticSource(dailyPaid(5, 100), nil)}
	mem := cache.NewMemoryCache()
	svc := newTestService(src, nil, mem, time.Minute)
	ctx := context.WithValue(context.Background(), db.TenantIDKey, "acme")

	first, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := mem.Get(ctx, "medinsight:acme:dashboard"); err != nil {
		t.Fatalf("expected dashboard in cache: %v", err)
	}
	second, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.patientCalls != 1 {
		t.Errorf("expected cached second call, source hit %d times", src.patientCalls)
	}
	if !second.GeneratedAt.Equal(first.GeneratedAt) || second.Revenue.DataPoints != 5 {
		t.Errorf("cached dashboard differs: %+v", second)
	}

	if err := svc.InvalidateDashboard(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Dashboard(ctx); err != nil {
		t.Fatal(err)
	}
	if src.patientCalls != 2 {
		t.Errorf("expected recompute after invalidation, got %d calls", src.patientCalls)
	}
}

func TestService_DashboardWithoutCache(t *testing.T) {
	src := &countingSource{StaticSource: NewStaticSource(nil, nil)}
	svc := newTestService(src, nil, nil, time.Minute)
	for i := 0; i < 2; i++ {
		d, err := svc.Dashboard(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Revenue.Trend != TrendInsufficientData {
			t.Errorf("expected insufficient data, got %s", d.Revenue.Trend)
		}
		if d.NoShow.HighestRisk == nil || d.Outbreaks.Patterns == nil {
			t.Error("dashboard lists must not be nil")
		}
	}
	if src.patientCalls != 2 {
		t.Errorf("expected no caching with noop cache, got %d calls", src.patientCalls)
	}
}
