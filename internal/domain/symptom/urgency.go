package symptom

import "strings"

// CriticalKeywords escalate an analysis to emergency on their own, whatever
// the predictions say.
var CriticalKeywords = []string{
	"chest pain",
	"difficulty breathing",
	"severe bleeding",
	"loss of consciousness",
	"severe headache",
	"facial drooping",
	"arm weakness",
	"speech difficulty",
	"severe abdominal pain",
}

// ClassifyUrgency returns emergency when any reported phrase contains a
// critical keyword, and otherwise maps the worst retained disease tier.
func ClassifyUrgency(reports []SymptomReport, predictions []Prediction) UrgencyLevel {
	for _, r := range reports {
		phrase := normalize(r.Symptom)
		for _, kw := range CriticalKeywords {
			if strings.Contains(phrase, kw) {
				return UrgencyEmergency
			}
		}
	}

	worst := SeverityTier(0)
	for _, p := range predictions {
		if p.SeverityTier > worst {
			worst = p.SeverityTier
		}
	}
	switch worst {
	case TierCritical:
		return UrgencyEmergency
	case TierHigh:
		return UrgencyHigh
	case TierMedium:
		return UrgencyModerate
	default:
		return UrgencyLow
	}
}
