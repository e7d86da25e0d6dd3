package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/langprof/internal/app"
)

func newTrainCmd(st *state) *cobra.Command {
	var watch bool
	c := &cobra.Command{
		Use:   "train",
		Short: "Train a model from the configured corpus",
		Long: "Reads the corpus, builds per-language n-gram profiles and stores the model " +
			"under model.name. With --watch, retrains whenever the corpus changes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(st.paths)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc := app.NewTrainService(st.cfg, store, st.logger)
			svc.SetStatusFile(st.paths.Status)
			res, err := svc.Train(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatTrainResult(res))
			if !watch {
				return nil
			}

			fmt.Fprintln(out, noticeColor.Sprintf("watching %s (Ctrl-C to stop)", st.cfg.Corpus.Path))
			return svc.Watch(ctx, func(res *app.TrainResult) {
				fmt.Fprint(out, formatTrainResult(res))
			})
		},
	}
	c.Flags().BoolVarP(&watch, "watch", "w", false, "Retrain when the corpus changes")
	return c
}
