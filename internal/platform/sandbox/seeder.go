// Package sandbox generates reproducible synthetic scheduling facts and
// symptom reports for demo environments, the in-memory store and tests.
package sandbox

import (
	"encoding/json"
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/medinsight/medinsight/internal/domain/predictive"
	"github.com/medinsight/medinsight/internal/domain/symptom"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// SeedConfig controls the volume and shape of generated data. Zero fields
// take the DefaultSeedConfig value; a zero Seed picks a time-based one and a
// negative AnalysisCount generates no analyses.
type SeedConfig struct {
	PatientCount           int     `json:"patient_count"`
	AppointmentsPerPatient int     `json:"appointments_per_patient"`
	HistoryDays            int     `json:"history_days"`
	AheadDays              int     `json:"ahead_days"`
	AnalysisCount          int     `json:"analysis_count"`
	NoShowRate             float64 `json:"no_show_rate"`
	CancelRate             float64 `json:"cancel_rate"`
	Seed                   int64   `json:"seed"`
}

func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		PatientCount:           50,
		AppointmentsPerPatient: 6,
		HistoryDays:            240,
		AheadDays:              14,
		AnalysisCount:          40,
		NoShowRate:             0.12,
		CancelRate:             0.08,
	}
}

func (c SeedConfig) withDefaults() SeedConfig {
	d := DefaultSeedConfig()
	if c.PatientCount <= 0 {
		c.PatientCount = d.PatientCount
	}
	if c.AppointmentsPerPatient <= 0 {
		c.AppointmentsPerPatient = d.AppointmentsPerPatient
	}
	if c.HistoryDays <= 0 {
		c.HistoryDays = d.HistoryDays
	}
	if c.AheadDays <= 0 {
		c.AheadDays = d.AheadDays
	}
	if c.AnalysisCount < 0 {
		c.AnalysisCount = 0
	} else if c.AnalysisCount == 0 {
		c.AnalysisCount = d.AnalysisCount
	}
	if c.NoShowRate <= 0 || c.NoShowRate >= 1 {
		c.NoShowRate = d.NoShowRate
	}
	if c.CancelRate <= 0 || c.CancelRate >= 1 {
		c.CancelRate = d.CancelRate
	}
	return c
}

// ---------------------------------------------------------------------------
// Pools
// ---------------------------------------------------------------------------

// Clinic hours skew toward late morning and late afternoon; 08:00 and 19:00
// slots exercise the off-hours factor.
var appointmentHours = []int{8, 9, 9, 10, 10, 10, 11, 11, 12, 14, 15, 15, 16, 16, 17, 18, 19}

var consultationFees = []float64{500, 800, 800, 1200, 1500}

// symptomSets are typical presentations; each generated analysis reports a
// random non-empty subset of one set.
var symptomSets = [][]string{
	{"fever", "body aches", "chills", "fatigue", "headache"},
	{"high fever", "joint pain", "rash", "pain behind eyes"},
	{"runny nose", "sneezing", "sore throat", "cough"},
	{"nausea", "vomiting", "diarrhea", "stomach cramps"},
	{"throbbing headache", "sensitivity to light", "nausea"},
	{"itchy skin", "rash", "redness"},
}

var severities = []symptom.Severity{symptom.SeverityMild, symptom.SeverityModerate, symptom.SeverityModerate, symptom.SeveritySevere}

// ---------------------------------------------------------------------------
// DataGenerator
// ---------------------------------------------------------------------------

// DataGenerator produces single facts from a seeded source. It is not safe
// for concurrent use.
type DataGenerator struct {
	rng *rand.Rand
	loc *time.Location
}

// NewDataGenerator returns a generator seeded for reproducibility. If seed is
// 0 a time-based seed is chosen. Appointment times are laid out in loc.
func NewDataGenerator(seed int64, loc *time.Location) *DataGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DataGenerator{rng: rand.New(rand.NewSource(seed)), loc: loc}
}

func (g *DataGenerator) newID() uuid.UUID {
	// A *rand.Rand never fails to read.
	id, _ := uuid.NewRandomFromReader(g.rng)
	return id
}

func (g *DataGenerator) chance(p float64) bool {
	return g.rng.Float64() < p
}

func (g *DataGenerator) GeneratePatient() predictive.PatientRef {
	return predictive.PatientRef{ID: g.newID()}
}

// GenerateAppointment places an appointment dayOffset days from now's
// calendar day. Past appointments are completed, missed or cancelled; future
// ones are scheduled.
func (g *DataGenerator) GenerateAppointment(patientID uuid.UUID, now time.Time, dayOffset int, cfg SeedConfig) predictive.AppointmentFacts {
	local := now.In(g.loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, g.loc).AddDate(0, 0, dayOffset)
	at := day.Add(time.Duration(appointmentHours[g.rng.Intn(len(appointmentHours))]) * time.Hour)
	if g.rng.Intn(2) == 1 {
		at = at.Add(30 * time.Minute)
	}

	a := predictive.AppointmentFacts{
		ID:          g.newID(),
		PatientID:   patientID,
		ScheduledAt: at,
		Fee:         consultationFees[g.rng.Intn(len(consultationFees))],
	}
	switch {
	case at.After(now):
		a.Status = predictive.StatusScheduled
		a.Paid = g.chance(0.4)
	case g.chance(cfg.NoShowRate):
		a.Status = predictive.StatusNoShow
	case g.chance(cfg.CancelRate):
		a.Status = predictive.StatusCancelled
	default:
		a.Status = predictive.StatusCompleted
		a.Paid = g.chance(0.9)
	}
	return a
}

// GenerateSymptoms returns a non-empty subset of one presentation with
// random severities.
func (g *DataGenerator) GenerateSymptoms() []symptom.SymptomReport {
	set := symptomSets[g.rng.Intn(len(symptomSets))]
	n := 1 + g.rng.Intn(len(set))
	reports := make([]symptom.SymptomReport, 0, n)
	for _, i := range g.rng.Perm(len(set))[:n] {
		reports = append(reports, symptom.SymptomReport{
			Symptom:  set[i],
			Severity: severities[g.rng.Intn(len(severities))],
		})
	}
	return reports
}

// ---------------------------------------------------------------------------
// Seeder
// ---------------------------------------------------------------------------

// Dataset is one generated batch.
type Dataset struct {
	GeneratedAt  time.Time                     `json:"generated_at"`
	Patients     []predictive.PatientRef       `json:"patients"`
	Appointments []predictive.AppointmentFacts `json:"appointments"`
	Analyses     [][]symptom.SymptomReport     `json:"analyses"`
}

// SeedResult summarizes a generated dataset.
type SeedResult struct {
	Patients     int `json:"patients"`
	Appointments int `json:"appointments"`
	Upcoming     int `json:"upcoming"`
	Completed    int `json:"completed"`
	NoShows      int `json:"no_shows"`
	Cancelled    int `json:"cancelled"`
	Analyses     int `json:"analyses"`
}

type Seeder struct {
	generator *DataGenerator
	config    SeedConfig
}

func NewSeeder(config SeedConfig, loc *time.Location) *Seeder {
	config = config.withDefaults()
	return &Seeder{generator: NewDataGenerator(config.Seed, loc), config: config}
}

func (s *Seeder) Config() SeedConfig { return s.config }

// Generate builds a dataset around now. Every patient gets
// AppointmentsPerPatient appointments spread over the history and the days
// ahead.
func (s *Seeder) Generate(now time.Time) (*Dataset, *SeedResult) {
	cfg := s.config
	g := s.generator
	ds := &Dataset{GeneratedAt: now}
	result := &SeedResult{}

	span := cfg.HistoryDays + cfg.AheadDays
	for i := 0; i < cfg.PatientCount; i++ {
		p := g.GeneratePatient()
		ds.Patients = append(ds.Patients, p)
		for j := 0; j < cfg.AppointmentsPerPatient; j++ {
			offset := g.rng.Intn(span) - cfg.HistoryDays
			a := g.GenerateAppointment(p.ID, now, offset, cfg)
			ds.Appointments = append(ds.Appointments, a)
			switch a.Status {
			case predictive.StatusScheduled:
				result.Upcoming++
			case predictive.StatusCompleted:
				result.Completed++
			case predictive.StatusNoShow:
				result.NoShows++
			case predictive.StatusCancelled:
				result.Cancelled++
			}
		}
	}
	for i := 0; i < cfg.AnalysisCount; i++ {
		ds.Analyses = append(ds.Analyses, g.GenerateSymptoms())
	}

	result.Patients = len(ds.Patients)
	result.Appointments = len(ds.Appointments)
	result.Analyses = len(ds.Analyses)
	return ds, result
}

// ExportJSON writes the dataset as indented JSON.
func ExportJSON(w io.Writer, ds *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds)
}
