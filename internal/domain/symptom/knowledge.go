package symptom

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DiseaseProfile is one immutable entry of the knowledge base.
type DiseaseProfile struct {
	Name         string       `json:"name"`
	Keywords     []string     `json:"keywords"`
	SeverityTier SeverityTier `json:"severity_tier"`
	Specialist   string       `json:"specialist"`
	Tests        []string     `json:"tests"`
	Actions      []string     `json:"actions"`
}

func (p DiseaseProfile) clone() DiseaseProfile {
	p.Keywords = cloneStrings(p.Keywords)
	p.Tests = cloneStrings(p.Tests)
	p.Actions = cloneStrings(p.Actions)
	return p
}

// Synonym maps a canonical symptom phrase to the ways patients tend to say it.
type Synonym struct {
	Canonical  string   `json:"canonical"`
	Alternates []string `json:"alternates"`
}

// SynonymTable is ordered; matching walks entries in declaration order.
type SynonymTable []Synonym

func (t SynonymTable) clone() SynonymTable {
	out := make(SynonymTable, len(t))
	for i, s := range t {
		out[i] = Synonym{Canonical: s.Canonical, Alternates: cloneStrings(s.Alternates)}
	}
	return out
}

// KnowledgeBase is the read-only disease registry shared by every analysis.
// Build it once with DefaultKnowledgeBase or LoadKnowledgeBase and pass the
// pointer around; no method mutates it.
type KnowledgeBase struct {
	diseases []DiseaseProfile
	index    map[string]int
	synonyms SynonymTable
}

// knowledgeFile is the on-disk layout accepted by LoadKnowledgeBase.
type knowledgeFile struct {
	Diseases []DiseaseProfile `json:"diseases"`
	Synonyms SynonymTable     `json:"synonyms"`
}

// NewKnowledgeBase validates the profiles and synonyms and returns a registry
// holding normalized private copies of them.
func NewKnowledgeBase(diseases []DiseaseProfile, synonyms SynonymTable) (*KnowledgeBase, error) {
	if len(diseases) == 0 {
		return nil, fmt.Errorf("knowledge base must contain at least one disease")
	}

	kb := &KnowledgeBase{
		diseases: make([]DiseaseProfile, 0, len(diseases)),
		index:    make(map[string]int, len(diseases)),
	}
	for i, d := range diseases {
		d = d.clone()
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			return nil, fmt.Errorf("disease %d: name is required", i)
		}
		key := strings.ToLower(d.Name)
		if _, dup := kb.index[key]; dup {
			return nil, fmt.Errorf("disease %q: duplicate name", d.Name)
		}
		if !d.SeverityTier.Valid() {
			return nil, fmt.Errorf("disease %q: invalid severity tier", d.Name)
		}
		if strings.TrimSpace(d.Specialist) == "" {
			return nil, fmt.Errorf("disease %q: specialist is required", d.Name)
		}
		keywords := make([]string, 0, len(d.Keywords))
		for _, k := range d.Keywords {
			k = normalize(k)
			if k == "" {
				return nil, fmt.Errorf("disease %q: empty keyword", d.Name)
			}
			keywords = append(keywords, k)
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("disease %q: at least one keyword is required", d.Name)
		}
		d.Keywords = keywords

		kb.index[key] = len(kb.diseases)
		kb.diseases = append(kb.diseases, d)
	}

	kb.synonyms = make(SynonymTable, 0, len(synonyms))
	for _, s := range synonyms {
		canonical := normalize(s.Canonical)
		if canonical == "" {
			return nil, fmt.Errorf("synonym entry with empty canonical phrase")
		}
		alts := make([]string, 0, len(s.Alternates))
		for _, a := range s.Alternates {
			if a = normalize(a); a != "" {
				alts = append(alts, a)
			}
		}
		kb.synonyms = append(kb.synonyms, Synonym{Canonical: canonical, Alternates: alts})
	}

	return kb, nil
}

// DefaultKnowledgeBase returns the built-in registry.
func DefaultKnowledgeBase() *KnowledgeBase {
	kb, err := NewKnowledgeBase(defaultDiseases, defaultSynonyms)
	if err != nil {
		panic(fmt.Sprintf("symptom: built-in knowledge base is invalid: %v", err))
	}
	return kb
}

// LoadKnowledgeBase reads a JSON registry from path. When the file carries no
// synonyms the built-in table is used.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	var f knowledgeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse knowledge base %s: %w", path, err)
	}
	if len(f.Synonyms) == 0 {
		f.Synonyms = defaultSynonyms
	}
	kb, err := NewKnowledgeBase(f.Diseases, f.Synonyms)
	if err != nil {
		return nil, fmt.Errorf("knowledge base %s: %w", path, err)
	}
	return kb, nil
}

// Diseases returns a copy of the profiles in declaration order.
func (kb *KnowledgeBase) Diseases() []DiseaseProfile {
	out := make([]DiseaseProfile, len(kb.diseases))
	for i, d := range kb.diseases {
		out[i] = d.clone()
	}
	return out
}

// Lookup finds a profile by name, case-insensitively.
func (kb *KnowledgeBase) Lookup(name string) (DiseaseProfile, bool) {
	i, ok := kb.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return DiseaseProfile{}, false
	}
	return kb.diseases[i].clone(), true
}

// Synonyms returns a copy of the synonym table.
func (kb *KnowledgeBase) Synonyms() SynonymTable {
	return kb.synonyms.clone()
}

func (kb *KnowledgeBase) Len() int { return len(kb.diseases) }

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
