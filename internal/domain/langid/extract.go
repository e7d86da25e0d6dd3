package langid

import (
	"context"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/corey/langprof/internal/domain/dataset"
	"github.com/corey/langprof/internal/ports"
)

// Gram is a fixed-length byte sequence. It is carried in a string so it can
// be used as a map key; equality is exact byte equality.
type Gram string

// String renders the gram for humans: as-is when it is valid printable UTF-8,
// otherwise as a quoted Go string with \x escapes.
func (g Gram) String() string {
	s := string(g)
	if utf8.ValidString(s) && strconv.CanBackquote(s) {
		return s
	}
	return strconv.Quote(s)
}

// Observation is the number of times Gram occurs in one text of Lang.
type Observation struct {
	Lang  string
	Gram  Gram
	Count int64
}

// ExtractGrams slides a byte window of every configured length over each
// example's text and emits one Observation per distinct gram per text per
// length. A text shorter than a length contributes nothing for that length.
func ExtractGrams(ctx context.Context, examples *dataset.Dataset[ports.TrainingExample], lengths []int, normalize string) (*dataset.Dataset[Observation], error) {
	return dataset.FlatMap(ctx, examples, func(ex ports.TrainingExample, emit func(Observation)) {
		text := normalizeText(ex.Text, normalize)
		for _, n := range lengths {
			for g, c := range countGrams(text, n) {
				emit(Observation{Lang: ex.Lang, Gram: g, Count: c})
			}
		}
	})
}

// countGrams counts every window of n consecutive bytes in text.
// Matches the per-text grouping: one entry per distinct byte sequence.
func countGrams(text string, n int) map[Gram]int64 {
	if n <= 0 || len(text) < n {
		return nil
	}
	counts := make(map[Gram]int64, len(text)-n+1)
	for i := 0; i+n <= len(text); i++ {
		counts[Gram(text[i:i+n])]++
	}
	return counts
}

func normalizeText(text, form string) string {
	switch form {
	case NormalizeNFC:
		return norm.NFC.String(text)
	case NormalizeNFKC:
		return norm.NFKC.String(text)
	default:
		return text
	}
}
