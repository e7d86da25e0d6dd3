// Package langid trains byte n-gram language profiles from labeled text.
//
// Training is a strict pipeline over partitioned datasets:
//
//	examples -> ExtractGrams -> AggregateGrams -> EstimateScores -> SelectProfile -> model
//
// Each stage is a pure transformation returning a new, fully materialized
// dataset. The result is a ports.LanguageModel mapping every selected gram to
// one score per supported language, in supported-language order.
//
// Scores are ln(1 + odds), where odds is the fraction of languages that
// contain the gram at all that are this language. The odds ignore occurrence
// counts; see EstimateScores.
package langid

import (
	"fmt"
	"slices"
)

// DefaultProfileSize is the profile size configuration layers start from.
// New does not substitute it; a zero ProfileSize is rejected.
const DefaultProfileSize = 300

// DefaultGramLengths are the gram lengths used when none are configured.
var DefaultGramLengths = []int{1, 2, 3}

// Normalization forms accepted by Config.Normalize.
const (
	NormalizeNone = ""
	NormalizeNFC  = "nfc"
	NormalizeNFKC = "nfkc"
)

// Config is the training configuration.
type Config struct {
	// Languages is the ordered supported-language list. Score vectors follow
	// this order. Examples labeled with any other language are discarded.
	Languages []string
	// GramLengths lists the byte window sizes to extract. Duplicates are not
	// removed and produce duplicate observations.
	GramLengths []int
	// ProfileSize is the number of top grams kept per language. It must be
	// positive.
	ProfileSize int
	// Normalize optionally applies a Unicode normalization form to every text
	// before it is split into bytes. Empty means raw UTF-8 bytes.
	Normalize string
}

// withDefaults fills empty optional fields.
func (c Config) withDefaults() Config {
	if len(c.GramLengths) == 0 {
		c.GramLengths = slices.Clone(DefaultGramLengths)
	}
	return c
}

// Validate checks the configuration. It does not look at training data.
func (c Config) Validate() error {
	if len(c.Languages) == 0 {
		return &ConfigurationError{Reason: "no supported languages configured"}
	}
	seen := make(map[string]bool, len(c.Languages))
	for _, lang := range c.Languages {
		if lang == "" {
			return &ConfigurationError{Reason: "empty language label in supported languages"}
		}
		if seen[lang] {
			return &ConfigurationError{Language: lang, Reason: "listed more than once"}
		}
		seen[lang] = true
	}
	if len(c.GramLengths) == 0 {
		return &ConfigurationError{Reason: "no gram lengths configured"}
	}
	for _, n := range c.GramLengths {
		if n <= 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("gram length must be positive, got %d", n)}
		}
	}
	if c.ProfileSize <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("profile size must be positive, got %d", c.ProfileSize)}
	}
	switch c.Normalize {
	case NormalizeNone, NormalizeNFC, NormalizeNFKC:
	default:
		return &ConfigurationError{Reason: fmt.Sprintf("unknown normalization form %q", c.Normalize)}
	}
	return nil
}
