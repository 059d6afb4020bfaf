package predictive

import "testing"

func TestAnalyzePeakHours(t *testing.T) {
	appts := []AppointmentFacts{
		{ScheduledAt: at(2025, 3, 11, 10, 0), Fee: 50, Paid: true},
		{ScheduledAt: at(2025, 3, 11, 10, 30), Fee: 50, Paid: true},
		{ScheduledAt: at(2025, 3, 4, 10, 15), Fee: 80},
		{ScheduledAt: at(2025, 3, 12, 14, 0), Fee: 40, Paid: true},
		{ScheduledAt: at(2025, 3, 12, 14, 0), Fee: 40, Paid: true},
		{ScheduledAt: at(2025, 3, 15, 9, 0), Fee: 60, Paid: true},
	}
	pa := AnalyzePeakHours(appts)

	if pa.TotalAppointments != 6 {
		t.Errorf("expected 6 appointments, got %d", pa.TotalAppointments)
	}
	if pa.PeakHour != 10 {
		t.Errorf("expected peak hour 10, got %d", pa.PeakHour)
	}
	if pa.PeakDay != 2 || pa.PeakDayName != "Tuesday" {
		t.Errorf("expected Tuesday, got %d %s", pa.PeakDay, pa.PeakDayName)
	}
	if got := pa.HourlyDistribution[10]; got.Count != 3 || got.Revenue != 100 {
		t.Errorf("hour 10 bucket = %+v, want 3 appointments and 100 paid revenue", got)
	}
	if got := pa.DailyDistribution[3]; got.Count != 2 || got.Revenue != 80 || got.DayName != "Wednesday" {
		t.Errorf("wednesday bucket = %+v", got)
	}
	if len(pa.HourlyDistribution) != 24 || len(pa.DailyDistribution) != 7 {
		t.Fatalf("distributions not fully populated: %d hours, %d days", len(pa.HourlyDistribution), len(pa.DailyDistribution))
	}
	for h, b := range pa.HourlyDistribution {
		if b.Hour != h {
			t.Errorf("hour bucket %d labelled %d", h, b.Hour)
		}
	}
}

func TestAnalyzePeakHours_Empty(t *testing.T) {
	pa := AnalyzePeakHours(nil)
	if pa.PeakHour != 0 || pa.PeakDay != 0 || pa.PeakDayName != "Sunday" {
		t.Errorf("unexpected peak for empty input: %+v", pa)
	}
	if len(pa.HourlyDistribution) != 24 || len(pa.DailyDistribution) != 7 {
		t.Error("distributions must be fully populated")
	}
}

func TestAnalyzePeakHours_TieGoesToEarliest(t *testing.T) {
	appts := []AppointmentFacts{
		{ScheduledAt: at(2025, 3, 14, 15, 0)},
		{ScheduledAt: at(2025, 3, 13, 11, 0)},
	}
	pa := AnalyzePeakHours(appts)
	if pa.PeakHour != 11 {
		t.Errorf("expected tie to resolve to hour 11, got %d", pa.PeakHour)
	}
	if pa.PeakDay != 4 {
		t.Errorf("expected tie to resolve to Thursday, got %d", pa.PeakDay)
	}
}
