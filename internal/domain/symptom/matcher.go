package symptom

import "strings"

// Match scores.
const (
	ScoreExact   = 1.0
	ScoreSynonym = 0.9
	ScorePartial = 0.7
	ScoreNone    = 0.0
)

// minTokenRunes is the length a token must exceed to count as a partial match.
const minTokenRunes = 3

// Match scores how well a patient's phrase matches one disease keyword.
// The first rule that fires wins: containment in either direction, then a
// synonym of the keyword's canonical symptom, then a shared long token.
func Match(userPhrase, keyword string, synonyms SynonymTable) float64 {
	u := normalize(userPhrase)
	k := normalize(keyword)
	if u == "" || k == "" {
		return ScoreNone
	}

	if containsEither(u, k) {
		return ScoreExact
	}

	for _, syn := range synonyms {
		if !containsEither(syn.Canonical, k) {
			continue
		}
		for _, alt := range syn.Alternates {
			if containsEither(alt, u) {
				return ScoreSynonym
			}
		}
	}

	if tokenOverlap(u, k) || tokenOverlap(k, u) {
		return ScorePartial
	}
	return ScoreNone
}

// directMatch reports a containment match, used to list matched symptoms.
func directMatch(userPhrase, keyword string) bool {
	u := normalize(userPhrase)
	k := normalize(keyword)
	if u == "" || k == "" {
		return false
	}
	return containsEither(u, k)
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// tokenOverlap reports whether any token of from longer than minTokenRunes
// occurs inside into.
func tokenOverlap(from, into string) bool {
	for _, tok := range strings.Fields(from) {
		if len([]rune(tok)) > minTokenRunes && strings.Contains(into, tok) {
			return true
		}
	}
	return false
}
