package symptom

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medinsight/medinsight/internal/platform/metrics"
)

var (
	ErrNotFound   = errors.New("symptom analysis not found")
	ErrValidation = errors.New("invalid symptom analysis request")
)

const (
	maxSymptoms      = 20
	maxSymptomLength = 200
	maxAge           = 150
)

var validSexes = map[string]bool{"male": true, "female": true, "other": true}

// AnalysisRequest is the input of one analysis call.
type AnalysisRequest struct {
	PatientID *uuid.UUID      `json:"patient_id,omitempty"`
	Symptoms  []SymptomReport `json:"symptoms"`
	Age       *int            `json:"age,omitempty"`
	Sex       string          `json:"sex,omitempty"`
}

type Service struct {
	analyzer *Analyzer
	repo     AnalysisRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(analyzer *Analyzer, repo AnalysisRepository, logger zerolog.Logger) *Service {
	return &Service{
		analyzer: analyzer,
		repo:     repo,
		logger:   logger.With().Str("component", "symptom").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Validate checks the request shape and normalizes symptom phrases in place.
func (req *AnalysisRequest) Validate() error {
	if len(req.Symptoms) == 0 {
		return validationError("at least one symptom is required")
	}
	if len(req.Symptoms) > maxSymptoms {
		return validationError("at most %d symptoms are allowed", maxSymptoms)
	}
	for i := range req.Symptoms {
		s := &req.Symptoms[i]
		s.Symptom = strings.TrimSpace(s.Symptom)
		if s.Symptom == "" {
			return validationError("symptoms[%d]: symptom is required", i)
		}
		if utf8.RuneCountInString(s.Symptom) > maxSymptomLength {
			return validationError("symptoms[%d]: symptom exceeds %d characters", i, maxSymptomLength)
		}
		if !s.Severity.Valid() {
			return validationError("symptoms[%d]: severity must be mild, moderate or severe", i)
		}
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > maxAge) {
		return validationError("age must be between 0 and %d", maxAge)
	}
	req.Sex = strings.ToLower(strings.TrimSpace(req.Sex))
	if req.Sex != "" && !validSexes[req.Sex] {
		return validationError("invalid sex: %s", req.Sex)
	}
	return nil
}

// Analyze validates the request, runs the engine and persists the record.
func (s *Service) Analyze(ctx context.Context, req *AnalysisRequest) (*AnalysisRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	actx := AnalysisContext{PatientID: req.PatientID, Age: req.Age, Sex: req.Sex}
	result := s.analyzer.Analyze(req.Symptoms, actx)

	rec := &AnalysisRecord{
		ID:        uuid.New(),
		PatientID: req.PatientID,
		Symptoms:  req.Symptoms,
		Age:       req.Age,
		Sex:       req.Sex,
		Result:    result,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist symptom analysis")
		return nil, fmt.Errorf("persist analysis: %w", err)
	}

	metrics.RecordSymptomAnalysis(result.UrgencyLevel.String(), len(result.Predictions))
	ev := s.logger.Info()
	if result.UrgencyLevel == UrgencyEmergency {
		ev = s.logger.Warn()
	}
	ev.Str("analysis_id", rec.ID.String()).
		Str("urgency", result.UrgencyLevel.String()).
		Int("predictions", len(result.Predictions)).
		Msg("symptom analysis completed")
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*AnalysisRecord, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// ListSince returns the records created at or after since, oldest first.
func (s *Service) ListSince(ctx context.Context, since time.Time) ([]*AnalysisRecord, error) {
	return s.repo.ListSince(ctx, since)
}

// Diseases lists the knowledge base in declaration order.
func (s *Service) Diseases() []DiseaseProfile {
	return s.analyzer.KnowledgeBase().Diseases()
}
