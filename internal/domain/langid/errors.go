package langid

import "fmt"

// ConfigurationError reports a training setup that cannot produce a model:
// a supported language without examples, or an invalid Config.
type ConfigurationError struct {
	Language string // offending language, if any
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Language != "" {
		return fmt.Sprintf("langid: language %q: %s", e.Language, e.Reason)
	}
	return "langid: " + e.Reason
}

// InternalConsistencyError reports a broken invariant between pipeline
// stages, such as a score computed over zero aggregated records.
type InternalConsistencyError struct {
	Gram   Gram
	Reason string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("langid: internal consistency: gram %s: %s", e.Gram, e.Reason)
}

// errNoExamples builds the error returned when lang has no training examples.
func errNoExamples(lang string) error {
	return &ConfigurationError{Language: lang, Reason: "no training examples"}
}
