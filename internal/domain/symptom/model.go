package symptom

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity is the intensity a patient reports for a single symptom.
type Severity int

const (
	SeverityMild Severity = iota + 1
	SeverityModerate
	SeveritySevere
)

var severityNames = map[Severity]string{
	SeverityMild:     "mild",
	SeverityModerate: "moderate",
	SeveritySevere:   "severe",
}

// ParseSeverity converts a wire value into a Severity.
func ParseSeverity(s string) (Severity, error) {
	for k, v := range severityNames {
		if v == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid severity: %q", s)
}

func (s Severity) Valid() bool {
	_, ok := severityNames[s]
	return ok
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity: %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// SeverityTier is the clinical seriousness of a disease in the knowledge base.
type SeverityTier int

const (
	TierLow SeverityTier = iota + 1
	TierMedium
	TierHigh
	TierCritical
)

var tierNames = map[SeverityTier]string{
	TierLow:      "low",
	TierMedium:   "medium",
	TierHigh:     "high",
	TierCritical: "critical",
}

// ParseSeverityTier converts a wire value into a SeverityTier.
func ParseSeverityTier(s string) (SeverityTier, error) {
	for k, v := range tierNames {
		if v == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid severity tier: %q", s)
}

func (t SeverityTier) Valid() bool {
	_, ok := tierNames[t]
	return ok
}

func (t SeverityTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t SeverityTier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid severity tier: %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *SeverityTier) UnmarshalText(b []byte) error {
	v, err := ParseSeverityTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// UrgencyLevel orders how quickly care should be sought:
// low < moderate < high < emergency.
type UrgencyLevel int

const (
	UrgencyLow UrgencyLevel = iota + 1
	UrgencyModerate
	UrgencyHigh
	UrgencyEmergency
)

var urgencyNames = map[UrgencyLevel]string{
	UrgencyLow:       "low",
	UrgencyModerate:  "moderate",
	UrgencyHigh:      "high",
	UrgencyEmergency: "emergency",
}

// ParseUrgencyLevel converts a wire value into an UrgencyLevel.
func ParseUrgencyLevel(s string) (UrgencyLevel, error) {
	for k, v := range urgencyNames {
		if v == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid urgency level: %q", s)
}

func (u UrgencyLevel) Valid() bool {
	_, ok := urgencyNames[u]
	return ok
}

func (u UrgencyLevel) String() string {
	if name, ok := urgencyNames[u]; ok {
		return name
	}
	return "unknown"
}

func (u UrgencyLevel) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("invalid urgency level: %d", int(u))
	}
	return []byte(u.String()), nil
}

func (u *UrgencyLevel) UnmarshalText(b []byte) error {
	v, err := ParseUrgencyLevel(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// SymptomReport is one symptom as described by the patient.
type SymptomReport struct {
	Symptom  string   `json:"symptom"`
	Severity Severity `json:"severity"`
	Duration string   `json:"duration,omitempty"`
}

// Prediction is a knowledge-base disease that cleared the confidence threshold.
type Prediction struct {
	Disease         string       `json:"disease"`
	Confidence      float64      `json:"confidence"`
	SeverityTier    SeverityTier `json:"severity_tier"`
	MatchedSymptoms []string     `json:"matched_symptoms"`
	Specialist      string       `json:"specialist"`
	Actions         []string     `json:"actions"`
	Tests           []string     `json:"tests"`
}

// AnalysisResult is the ranked outcome of one analysis call.
type AnalysisResult struct {
	Predictions           []Prediction `json:"predictions"`
	UrgencyLevel          UrgencyLevel `json:"urgency_level"`
	RecommendedSpecialist string       `json:"recommended_specialist"`
	RecommendedTests      []string     `json:"recommended_tests"`
}

// AnalysisContext carries optional patient details supplied alongside the
// symptoms. It is recorded with the analysis and never changes the ranking.
type AnalysisContext struct {
	PatientID *uuid.UUID `json:"patient_id,omitempty"`
	Age       *int       `json:"age,omitempty"`
	Sex       string     `json:"sex,omitempty"`
}

// AnalysisRecord is a persisted analysis. Age and Sex are stored with the
// record for the reviewing clinician; they do not influence scoring.
type AnalysisRecord struct {
	ID        uuid.UUID       `json:"id"`
	TenantID  string          `json:"tenant_id,omitempty"`
	PatientID *uuid.UUID      `json:"patient_id,omitempty"`
	Symptoms  []SymptomReport `json:"symptoms"`
	Age       *int            `json:"age,omitempty"`
	Sex       string          `json:"sex,omitempty"`
	Result    AnalysisResult  `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}
