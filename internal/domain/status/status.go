// Package status generates run status for langprof.
//
// The training service writes a JSON status file after every run (including
// each retrain in watch mode). Editors and shell prompts read this file to show
// whether the stored model is current.
package status

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/corey/langprof/internal/ports"
)

// StatusFile is the filename within the .langprof directory where status JSON is written.
const StatusFile = "status.json"

// Run states.
const (
	StateOK     = "ok"
	StateFailed = "failed"
)

// StatusData is the JSON payload written after a training run.
type StatusData struct {
	Model      string    `json:"model"`
	State      string    `json:"state"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	Examples   int       `json:"examples,omitempty"`
	Grams      int       `json:"grams,omitempty"`

	// Leaders are the languages that own the most profile grams, where a gram
	// is owned by the language with its highest score.
	Leaders []Leader `json:"leaders,omitempty"`
}

// Leader is one language's count of owned profile grams.
type Leader struct {
	Lang  string `json:"lang"`
	Grams int    `json:"grams"`
}

// Generate produces a StatusData for a run. A nil model with a non-nil runErr
// records a failure.
func Generate(name string, model *ports.LanguageModel, examples int, elapsed time.Duration, runErr error) *StatusData {
	sd := &StatusData{
		Model:      name,
		State:      StateOK,
		FinishedAt: time.Now().UTC(),
		ElapsedMs:  elapsed.Milliseconds(),
	}
	if runErr != nil {
		sd.State = StateFailed
		sd.Error = runErr.Error()
		return sd
	}
	sd.Examples = examples
	if model != nil {
		sd.Grams = model.Len()
		sd.Leaders = leaders(model, 3)
	}
	return sd
}

// WriteJSON writes the status data as JSON to a file.
func WriteJSON(path string, data *StatusData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// leaders returns the top n languages by owned grams, descending. Grams whose
// best score is shared by several languages count for none of them.
func leaders(model *ports.LanguageModel, n int) []Leader {
	langs := model.Languages()
	owned := make([]int, len(langs))
	model.Range(func(_ string, scores []float64) bool {
		best, at := -1.0, -1
		for i, s := range scores {
			switch {
			case s > best:
				best, at = s, i
			case s == best:
				at = -1
			}
		}
		if at >= 0 {
			owned[at]++
		}
		return true
	})

	var out []Leader
	for i, c := range owned {
		if c > 0 {
			out = append(out, Leader{Lang: langs[i], Grams: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Grams != out[j].Grams {
			return out[i].Grams > out[j].Grams
		}
		return out[i].Lang < out[j].Lang
	})

	if n < len(out) {
		out = out[:n]
	}
	return out
}
