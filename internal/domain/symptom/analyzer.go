package symptom

import "sort"

// Options tunes the aggregator. Zero fields fall back to DefaultOptions.
type Options struct {
	MinConfidence      float64         `mapstructure:"min_confidence"`
	MaxPredictions     int             `mapstructure:"max_predictions"`
	Weights            SeverityWeights `mapstructure:"weights"`
	FallbackSpecialist string          `mapstructure:"fallback_specialist"`
}

func DefaultOptions() Options {
	return Options{
		MinConfidence:      20,
		MaxPredictions:     5,
		Weights:            DefaultSeverityWeights(),
		FallbackSpecialist: "General Physician",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinConfidence <= 0 {
		o.MinConfidence = d.MinConfidence
	}
	if o.MaxPredictions <= 0 {
		o.MaxPredictions = d.MaxPredictions
	}
	if o.Weights == (SeverityWeights{}) {
		o.Weights = d.Weights
	}
	if o.FallbackSpecialist == "" {
		o.FallbackSpecialist = d.FallbackSpecialist
	}
	return o
}

// Analyzer ranks the knowledge base against reported symptoms. It holds no
// mutable state and is safe for concurrent use.
type Analyzer struct {
	kb   *KnowledgeBase
	opts Options
}

func NewAnalyzer(kb *KnowledgeBase, opts Options) *Analyzer {
	if kb == nil {
		kb = DefaultKnowledgeBase()
	}
	return &Analyzer{kb: kb, opts: opts.withDefaults()}
}

func (a *Analyzer) KnowledgeBase() *KnowledgeBase { return a.kb }

func (a *Analyzer) Options() Options { return a.opts }

type rankedScore struct {
	profile *DiseaseProfile
	score   DiseaseScore
}

// Analyze scores every disease, keeps those above the confidence floor and
// returns the best ones with urgency and recommendations. The context is not
// used for scoring.
func (a *Analyzer) Analyze(reports []SymptomReport, _ AnalysisContext) AnalysisResult {
	var ranked []rankedScore
	for i := range a.kb.diseases {
		p := &a.kb.diseases[i]
		ds := ScoreDisease(*p, reports, a.kb.synonyms, a.opts.Weights)
		if ds.Final <= a.opts.MinConfidence {
			continue
		}
		ranked = append(ranked, rankedScore{profile: p, score: ds})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score.Final > ranked[j].score.Final
	})
	if len(ranked) > a.opts.MaxPredictions {
		ranked = ranked[:a.opts.MaxPredictions]
	}

	result := AnalysisResult{
		Predictions:           make([]Prediction, 0, len(ranked)),
		RecommendedSpecialist: a.opts.FallbackSpecialist,
		RecommendedTests:      []string{},
	}
	seenTests := make(map[string]bool)
	for _, r := range ranked {
		matched := r.score.Matched
		if matched == nil {
			matched = []string{}
		}
		result.Predictions = append(result.Predictions, Prediction{
			Disease:         r.profile.Name,
			Confidence:      r.score.Final / 100,
			SeverityTier:    r.profile.SeverityTier,
			MatchedSymptoms: matched,
			Specialist:      r.profile.Specialist,
			Actions:         cloneStrings(r.profile.Actions),
			Tests:           cloneStrings(r.profile.Tests),
		})
		for _, t := range r.profile.Tests {
			if !seenTests[t] {
				seenTests[t] = true
				result.RecommendedTests = append(result.RecommendedTests, t)
			}
		}
	}
	if len(result.Predictions) > 0 {
		result.RecommendedSpecialist = result.Predictions[0].Specialist
	}
	result.UrgencyLevel = ClassifyUrgency(reports, result.Predictions)
	return result
}
