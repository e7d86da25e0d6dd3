package langid

import (
	"context"
	"math"

	"github.com/corey/langprof/internal/domain/dataset"
)

// MaxScore is the upper bound of every score: ln(1 + 1).
var MaxScore = math.Log(2)

// ScoreVector holds one score per supported language for Gram, in
// supported-language order.
type ScoreVector struct {
	Gram   Gram
	Scores []float64
}

// EstimateScores produces one ScoreVector per distinct gram.
//
// For language i, odds = matches / total, where total is the number of
// aggregated records for the gram (the number of languages it occurs in) and
// matches is 1 if one of those records belongs to languages[i], else 0.
// Occurrence counts do not enter the odds. The score is ln(1 + odds), so every
// score lies in [0, ln 2].
func EstimateScores(ctx context.Context, counts *dataset.Dataset[GramCount], languages []string) (*dataset.Dataset[ScoreVector], error) {
	byGram, err := dataset.GroupByKey(ctx, counts, func(c GramCount) Gram { return c.Gram })
	if err != nil {
		return nil, err
	}
	return dataset.TryMap(ctx, byGram, func(kv dataset.KV[Gram, []GramCount]) (ScoreVector, error) {
		return scoreVector(kv.Key, kv.Value, languages)
	})
}

func scoreVector(gram Gram, records []GramCount, languages []string) (ScoreVector, error) {
	total := len(records)
	if total == 0 {
		return ScoreVector{}, &InternalConsistencyError{Gram: gram, Reason: "no aggregated records to divide by"}
	}
	scores := make([]float64, len(languages))
	for i, lang := range languages {
		matches := 0
		for _, r := range records {
			if r.Lang == lang {
				matches++
			}
		}
		odds := float64(matches) / float64(total)
		scores[i] = math.Log(1 + odds)
	}
	return ScoreVector{Gram: gram, Scores: scores}, nil
}
