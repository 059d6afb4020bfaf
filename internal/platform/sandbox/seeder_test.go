package sandbox

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/medinsight/medinsight/internal/domain/predictive"
)

var seedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func smallConfig(seed int64) SeedConfig {
	return SeedConfig{
		PatientCount:           10,
		AppointmentsPerPatient: 4,
		HistoryDays:            200,
		AheadDays:              10,
		AnalysisCount:          15,
		Seed:                   seed,
	}
}

func TestSeeder_Generate_Counts(t *testing.T) {
	ds, res := NewSeeder(smallConfig(42), time.UTC).Generate(seedNow)

	if len(ds.Patients) != 10 || res.Patients != 10 {
		t.Fatalf("expected 10 patients, got %d/%d", len(ds.Patients), res.Patients)
	}
	if len(ds.Appointments) != 40 || res.Appointments != 40 {
		t.Fatalf("expected 40 appointments, got %d/%d", len(ds.Appointments), res.Appointments)
	}
	if res.Upcoming+res.Completed+res.NoShows+res.Cancelled != 40 {
		t.Errorf("status tallies do not add up: %+v", res)
	}
	if len(ds.Analyses) != 15 || res.Analyses != 15 {
		t.Errorf("expected 15 analyses, got %d/%d", len(ds.Analyses), res.Analyses)
	}
}

func TestSeeder_Generate_Reproducible(t *testing.T) {
	a, _ := NewSeeder(smallConfig(7), time.UTC).Generate(seedNow)
	b, _ := NewSeeder(smallConfig(7), time.UTC).Generate(seedNow)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different datasets")
	}

	c, _ := NewSeeder(smallConfig(8), time.UTC).Generate(seedNow)
	if reflect.DeepEqual(a.Patients, c.Patients) {
		t.Error("different seeds produced identical patients")
	}
}

func TestSeeder_Generate_AppointmentInvariants(t *testing.T) {
	cfg := smallConfig(99)
	ds, _ := NewSeeder(cfg, time.UTC).Generate(seedNow)

	patients := make(map[string]bool)
	for _, p := range ds.Patients {
		patients[p.ID.String()] = true
	}
	earliest := seedNow.AddDate(0, 0, -cfg.HistoryDays-1)
	latest := seedNow.AddDate(0, 0, cfg.AheadDays+1)
	for _, a := range ds.Appointments {
		if !patients[a.PatientID.String()] {
			t.Fatalf("appointment %s references unknown patient", a.ID)
		}
		if !a.Status.Valid() {
			t.Fatalf("invalid status %q", a.Status)
		}
		if a.ScheduledAt.After(seedNow) != (a.Status == predictive.StatusScheduled) {
			t.Errorf("appointment at %s has status %s", a.ScheduledAt, a.Status)
		}
		if (a.Status == predictive.StatusNoShow || a.Status == predictive.StatusCancelled) && a.Paid {
			t.Errorf("%s appointment should not be paid", a.Status)
		}
		if a.ScheduledAt.Before(earliest) || a.ScheduledAt.After(latest) {
			t.Errorf("appointment at %s outside the generated span", a.ScheduledAt)
		}
		if h := a.ScheduledAt.Hour(); h < 8 || h > 19 {
			t.Errorf("unexpected hour %d", h)
		}
		if a.Fee <= 0 {
			t.Errorf("expected positive fee, got %g", a.Fee)
		}
	}
}

func TestSeeder_Generate_UsesLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ds, _ := NewSeeder(smallConfig(3), loc).Generate(seedNow)
	for _, a := range ds.Appointments {
		if a.ScheduledAt.Location() != loc {
			t.Fatalf("expected appointments in %s, got %s", loc, a.ScheduledAt.Location())
		}
	}
}

func TestDataGenerator_GenerateSymptoms(t *testing.T) {
	g := NewDataGenerator(1, nil)
	for i := 0; i < 50; i++ {
		reports := g.GenerateSymptoms()
		if len(reports) == 0 {
			t.Fatal("expected at least one symptom")
		}
		seen := make(map[string]bool)
		for _, r := range reports {
			if !r.Severity.Valid() {
				t.Fatalf("invalid severity %v", r.Severity)
			}
			if seen[r.Symptom] {
				t.Fatalf("duplicate symptom %q", r.Symptom)
			}
			seen[r.Symptom] = true
		}
	}
}

func TestSeedConfig_Defaults(t *testing.T) {
	s := NewSeeder(SeedConfig{Seed: 1}, nil)
	got := s.Config()
	want := DefaultSeedConfig()
	want.Seed = 1
	if got != want {
		t.Errorf("expected defaults %+v, got %+v", want, got)
	}

	s = NewSeeder(SeedConfig{Seed: 1, AnalysisCount: -1}, nil)
	ds, _ := s.Generate(seedNow)
	if len(ds.Analyses) != 0 {
		t.Errorf("expected no analyses, got %d", len(ds.Analyses))
	}
}

func TestExportJSON(t *testing.T) {
	ds, _ := NewSeeder(smallConfig(5), time.UTC).Generate(seedNow)
	var buf bytes.Buffer
	if err := ExportJSON(&buf, ds); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"generated_at", "patients", "appointments", "analyses"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	var appts []map[string]interface{}
	if err := json.Unmarshal(decoded["appointments"], &appts); err != nil {
		t.Fatalf("decode appointments: %v", err)
	}
	if len(appts) != 40 {
		t.Errorf("expected 40 appointments, got %d", len(appts))
	}
	if _, ok := appts[0]["scheduled_at"]; !ok {
		t.Error("expected scheduled_at in appointment JSON")
	}
}
