package symptom

import "math"

// SeverityWeights is the confidence boost per unit of match score for each
// reported severity.
type SeverityWeights struct {
	Mild     float64 `mapstructure:"mild" json:"mild"`
	Moderate float64 `mapstructure:"moderate" json:"moderate"`
	Severe   float64 `mapstructure:"severe" json:"severe"`
}

// DefaultSeverityWeights returns severe 15, moderate 8, mild 3.
func DefaultSeverityWeights() SeverityWeights {
	return SeverityWeights{Mild: 3, Moderate: 8, Severe: 15}
}

func (w SeverityWeights) weight(s Severity) float64 {
	switch s {
	case SeveritySevere:
		return w.Severe
	case SeverityModerate:
		return w.Moderate
	case SeverityMild:
		return w.Mild
	default:
		return 0
	}
}

// DiseaseScore is the intermediate, 0-100 scale result of scoring one profile.
type DiseaseScore struct {
	Disease    string
	MatchSum   float64
	Boost      float64
	Base       float64
	Final      float64
	Matched    []string
	MatchCount int
}

// ScoreDisease scores one profile against the reported symptoms. A profile
// without keywords never matches.
func ScoreDisease(profile DiseaseProfile, reports []SymptomReport, synonyms SynonymTable, weights SeverityWeights) DiseaseScore {
	ds := DiseaseScore{Disease: profile.Name}
	if len(profile.Keywords) == 0 {
		return ds
	}

	for _, r := range reports {
		direct := false
		for _, kw := range profile.Keywords {
			score := Match(r.Symptom, kw, synonyms)
			if score == ScoreNone {
				continue
			}
			ds.MatchCount++
			ds.MatchSum += score
			ds.Boost += weights.weight(r.Severity) * score
			if !direct && directMatch(r.Symptom, kw) {
				direct = true
			}
		}
		if direct {
			ds.Matched = append(ds.Matched, r.Symptom)
		}
	}

	ds.Base = ds.MatchSum / float64(len(profile.Keywords)) * 100
	ds.Final = math.Min(ds.Base+ds.Boost, 100)
	return ds
}
