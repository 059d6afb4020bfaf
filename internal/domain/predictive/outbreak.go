package predictive

import (
	"fmt"
	"sort"
	"time"
)

// DetectOutbreakPatterns tallies confident predictions among the analyses of
// the trailing window and raises an alert when the leading disease accounts
// for more than OutbreakAlertPercent of them. The rule is a clustering
// heuristic, not an epidemiological test.
func DetectOutbreakPatterns(records []AnalysisRecord, windowDays int, now time.Time, t Tunables) OutbreakReport {
	t = t.withDefaults()
	if windowDays <= 0 {
		windowDays = t.OutbreakWindowDays
	}
	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour)

	report := OutbreakReport{Patterns: []DiseasePattern{}, WindowDays: windowDays}
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if r.CreatedAt.Before(cutoff) || r.CreatedAt.After(now) {
			continue
		}
		report.TotalAnalyses++
		for _, p := range r.Predictions {
			if p.Confidence <= t.OutbreakMinConfidence {
				continue
			}
			if _, seen := counts[p.Disease]; !seen {
				order = append(order, p.Disease)
			}
			counts[p.Disease]++
		}
	}
	if report.TotalAnalyses == 0 {
		return report
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > t.OutbreakTopN {
		order = order[:t.OutbreakTopN]
	}
	for _, d := range order {
		report.Patterns = append(report.Patterns, DiseasePattern{
			Disease:    d,
			Cases:      counts[d],
			Percentage: float64(counts[d]) / float64(report.TotalAnalyses) * 100,
		})
	}

	if len(report.Patterns) > 0 {
		top := report.Patterns[0]
		if top.Percentage > t.OutbreakAlertPercent {
			report.Alert = fmt.Sprintf("Potential outbreak: %s accounts for %.1f%% of symptom analyses (%d of %d) in the last %d days",
				top.Disease, top.Percentage, top.Cases, report.TotalAnalyses, windowDays)
		}
	}
	return report
}
