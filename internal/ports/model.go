package ports

import (
	"slices"
	"time"
)

// TrainingExample is one labeled text. Text is treated as raw UTF-8 bytes.
type TrainingExample struct {
	Lang string
	Text string
}

// LanguageModel is the trained artifact: a profile mapping each selected gram
// to one score per language, plus the configuration it was trained with.
//
// A LanguageModel is immutable after construction. Every accessor returns
// copies, so it is safe for concurrent use by multiple goroutines.
//
// Grams are raw byte sequences carried in a string; two grams are equal iff
// their bytes are equal.
type LanguageModel struct {
	gramLengths []int
	languages   []string
	profile     map[string][]float64
	trainedAt   time.Time
}

// NewLanguageModel builds a model from the given configuration and profile.
// All inputs are copied. Score vectors are expected to have exactly
// len(languages) entries.
func NewLanguageModel(gramLengths []int, languages []string, profile map[string][]float64, trainedAt time.Time) *LanguageModel {
	p := make(map[string][]float64, len(profile))
	for g, scores := range profile {
		p[g] = slices.Clone(scores)
	}
	return &LanguageModel{
		gramLengths: slices.Clone(gramLengths),
		languages:   slices.Clone(languages),
		profile:     p,
		trainedAt:   trainedAt,
	}
}

// GramLengths returns the gram lengths the model was trained with.
func (m *LanguageModel) GramLengths() []int {
	return slices.Clone(m.gramLengths)
}

// Languages returns the ordered language list. Score vectors follow this order.
func (m *LanguageModel) Languages() []string {
	return slices.Clone(m.languages)
}

// LanguageIndex returns the position of lang in Languages, or -1.
func (m *LanguageModel) LanguageIndex(lang string) int {
	return slices.Index(m.languages, lang)
}

// TrainedAt returns when the model was produced.
func (m *LanguageModel) TrainedAt() time.Time {
	return m.trainedAt
}

// Len returns the number of grams in the profile.
func (m *LanguageModel) Len() int {
	return len(m.profile)
}

// Scores returns a copy of the score vector for gram.
func (m *LanguageModel) Scores(gram string) ([]float64, bool) {
	s, ok := m.profile[gram]
	if !ok {
		return nil, false
	}
	return slices.Clone(s), true
}

// Grams returns every profile gram in byte-lexicographic order.
func (m *LanguageModel) Grams() []string {
	grams := make([]string, 0, len(m.profile))
	for g := range m.profile {
		grams = append(grams, g)
	}
	slices.Sort(grams)
	return grams
}

// Range calls fn for every gram in byte-lexicographic order until fn
// returns false. The scores slice passed to fn must not be retained.
func (m *LanguageModel) Range(fn func(gram string, scores []float64) bool) {
	for _, g := range m.Grams() {
		if !fn(g, m.profile[g]) {
			return
		}
	}
}

// Equal reports whether both models carry the same configuration and an
// identical gram to score-vector mapping. TrainedAt is ignored.
func (m *LanguageModel) Equal(other *LanguageModel) bool {
	if m == nil || other == nil {
		return m == other
	}
	if !slices.Equal(m.gramLengths, other.gramLengths) || !slices.Equal(m.languages, other.languages) {
		return false
	}
	if len(m.profile) != len(other.profile) {
		return false
	}
	for g, s := range m.profile {
		o, ok := other.profile[g]
		if !ok || !slices.Equal(s, o) {
			return false
		}
	}
	return true
}

// Info summarizes the model under the given name.
func (m *LanguageModel) Info(name string) ModelInfo {
	return ModelInfo{
		Name:        name,
		Languages:   m.Languages(),
		GramLengths: m.GramLengths(),
		Grams:       m.Len(),
		TrainedAt:   m.trainedAt,
	}
}
