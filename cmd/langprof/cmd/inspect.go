package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/langprof/internal/domain/langid"
)

func newInspectCmd(st *state) *cobra.Command {
	var (
		lang string
		top  int
	)
	c := &cobra.Command{
		Use:   "inspect <name>",
		Short: "Show the top grams of a stored model",
		Long: "Ranks the model's grams by each language's score (ties by gram bytes) " +
			"and prints the first --top per language.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if top <= 0 {
				return fmt.Errorf("--top must be positive")
			}
			store, err := openStore(st.paths)
			if err != nil {
				return err
			}
			defer store.Close()

			model, err := loadModel(store, args[0])
			if err != nil {
				return err
			}

			langs := model.Languages()
			if lang != "" {
				langs = []string{lang}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, boldColor.Sprintf("⚡ %s", args[0])+
				dimColor.Sprintf("  n=%s  trained %s", joinInts(model.GramLengths()), model.TrainedAt().Format("2006-01-02 15:04:05")))
			for _, l := range langs {
				vs, err := langid.TopGrams(model, l, top)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatTopGrams(model, l, vs))
			}
			return nil
		},
	}
	c.Flags().StringVar(&lang, "lang", "", "Only this language")
	c.Flags().IntVarP(&top, "top", "n", 20, "Grams shown per language")
	return c
}
