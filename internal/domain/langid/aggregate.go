package langid

import (
	"context"

	"github.com/corey/langprof/internal/domain/dataset"
)

// GramCount is the total number of occurrences of Gram across all texts of
// Lang. After aggregation there is at most one GramCount per (Lang, Gram).
type GramCount struct {
	Lang  string
	Gram  Gram
	Count int64
}

type langGram struct {
	lang string
	gram Gram
}

// AggregateGrams sums observation counts per (language, gram). Observations
// for languages outside languages are dropped before the shuffle. Counts for
// the same gram in different languages stay separate records.
func AggregateGrams(ctx context.Context, obs *dataset.Dataset[Observation], languages []string) (*dataset.Dataset[GramCount], error) {
	supported := languageSet(languages)
	kept, err := dataset.Filter(ctx, obs, func(o Observation) bool {
		return supported[o.Lang]
	})
	if err != nil {
		return nil, err
	}

	summed, err := dataset.ReduceByKey(ctx, kept,
		func(o Observation) (langGram, int64) { return langGram{o.Lang, o.Gram}, o.Count },
		func(a, b int64) int64 { return a + b },
	)
	if err != nil {
		return nil, err
	}

	return dataset.Map(ctx, summed, func(kv dataset.KV[langGram, int64]) GramCount {
		return GramCount{Lang: kv.Key.lang, Gram: kv.Key.gram, Count: kv.Value}
	})
}

func languageSet(languages []string) map[string]bool {
	set := make(map[string]bool, len(languages))
	for _, l := range languages {
		set[l] = true
	}
	return set
}
