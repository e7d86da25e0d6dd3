package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/corey/langprof/internal/app"
	"github.com/corey/langprof/internal/domain/langid"
	"github.com/corey/langprof/internal/ports"
)

// Terminal styles.
var (
	boldColor   = color.New(color.Bold)
	nameColor   = color.New(color.FgCyan)
	langColor   = color.New(color.FgMagenta)
	gramColor   = color.New(color.FgGreen)
	dimColor    = color.New(color.FgHiBlack)
	errorColor  = color.New(color.FgRed, color.Bold)
	noticeColor = color.New(color.FgYellow)
)

// setColor turns styling on or off for the whole process.
func setColor(enabled bool) {
	color.NoColor = !enabled
}

// formatTrainResult formats a completed training run.
//
//	⚡ model "wiki" trained │ 3 languages │ 612 grams │ 1.2s
//	  examples: 48210
func formatTrainResult(res *app.TrainResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s │ %d languages │ %d grams │ %s\n",
		boldColor.Sprintf("⚡ model %q trained", res.Name),
		len(res.Model.Languages()), res.Model.Len(), res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&sb, "  examples: %d\n", res.Examples)
	return sb.String()
}

// formatModels formats the stored model list.
func formatModels(infos []ports.ModelInfo) string {
	if len(infos) == 0 {
		return dimColor.Sprint("no models stored") + "\n"
	}
	var sb strings.Builder
	sb.WriteString(boldColor.Sprintf("⚡ %d models", len(infos)) + "\n")
	for _, info := range infos {
		fmt.Fprintf(&sb, "  %s  %s  n=%s  %d grams  %s\n",
			nameColor.Sprint(info.Name),
			langColor.Sprint(strings.Join(info.Languages, ",")),
			joinInts(info.GramLengths),
			info.Grams,
			dimColor.Sprint(info.TrainedAt.Format(time.RFC3339)))
	}
	return sb.String()
}

// formatTopGrams formats one language's highest-scoring grams.
//
//	en  (top 3 of 612)
//	   1  "th"    0.6931  [0.6931 0.0000]
func formatTopGrams(model *ports.LanguageModel, lang string, top []langid.ScoreVector) string {
	i := model.LanguageIndex(lang)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", langColor.Sprint(lang), dimColor.Sprintf("(top %d of %d)", len(top), model.Len()))
	for rank, v := range top {
		fmt.Fprintf(&sb, "  %3d  %-14s %.4f  %s\n",
			rank+1, gramColor.Sprint(displayGram(v.Gram)), v.Scores[i], dimColor.Sprint(formatScores(v.Scores)))
	}
	return sb.String()
}

// displayGram shows the gram between quotes so whitespace grams stay
// visible; non-printable bytes come out as \xNN escapes.
func displayGram(g langid.Gram) string {
	s := g.String()
	if strings.HasPrefix(s, `"`) {
		return s
	}
	return `"` + s + `"`
}

func formatScores(scores []float64) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = strconv.FormatFloat(s, 'f', 4, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}
