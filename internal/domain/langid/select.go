package langid

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/corey/langprof/internal/domain/dataset"
	"github.com/corey/langprof/internal/ports"
)

// SelectProfile keeps, for every language, the top k grams by that
// language's score and returns the union as a gram -> scores map.
//
// Ties are broken by byte-lexicographic gram order, so the selection is
// reproducible. A gram chosen for several languages appears once. When fewer
// than k grams exist, all of them are selected.
//
// The selected gram set is broadcast read-only to the workers running the
// final filter pass.
func SelectProfile(ctx context.Context, vectors *dataset.Dataset[ScoreVector], languages []string, k int) (map[Gram][]float64, error) {
	selected := make(map[Gram]struct{})
	for i := range languages {
		top, err := dataset.TopK(ctx, vectors, k, rankBy(i))
		if err != nil {
			return nil, err
		}
		for _, v := range top {
			selected[v.Gram] = struct{}{}
		}
	}

	chosen := dataset.NewBroadcast(selected)
	kept, err := dataset.Filter(ctx, vectors, func(v ScoreVector) bool {
		_, ok := chosen.Value()[v.Gram]
		return ok
	})
	if err != nil {
		return nil, err
	}

	profile := make(map[Gram][]float64, kept.Len())
	for _, v := range kept.Collect() {
		profile[v.Gram] = v.Scores
	}
	return profile, nil
}

// rankBy orders score vectors by score i descending, then gram ascending.
func rankBy(i int) func(a, b ScoreVector) int {
	return func(a, b ScoreVector) int {
		if c := cmp.Compare(b.Scores[i], a.Scores[i]); c != 0 {
			return c
		}
		return cmp.Compare(a.Gram, b.Gram)
	}
}

// TopGrams ranks a trained model's profile by lang's score with the same
// ordering SelectProfile uses and returns at most n vectors.
func TopGrams(model *ports.LanguageModel, lang string, n int) ([]ScoreVector, error) {
	i := model.LanguageIndex(lang)
	if i < 0 {
		return nil, fmt.Errorf("language %q not in model", lang)
	}
	vs := make([]ScoreVector, 0, model.Len())
	model.Range(func(g string, scores []float64) bool {
		vs = append(vs, ScoreVector{Gram: Gram(g), Scores: slices.Clone(scores)})
		return true
	})
	return dataset.TopK(context.Background(), dataset.Parallelize(vs, dataset.Options{Partitions: 1, Workers: 1}), n, rankBy(i))
}
