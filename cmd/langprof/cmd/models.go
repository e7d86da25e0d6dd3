package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/langprof/internal/ports"
)

func newModelsCmd(st *state) *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "models",
		Short: "List stored models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(st.paths)
			if err != nil {
				return err
			}
			defer store.Close()

			infos, err := store.ListModels()
			if err != nil {
				return fmt.Errorf("list models: %w", err)
			}
			if asJSON {
				if infos == nil {
					infos = []ports.ModelInfo{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatModels(infos))
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	return c
}

// loadModel loads name or reports ports.ErrModelNotFound.
func loadModel(store ports.ModelStore, name string) (*ports.LanguageModel, error) {
	m, err := store.LoadModel(name)
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", name, err)
	}
	if m == nil {
		return nil, fmt.Errorf("model %q: %w", name, ports.ErrModelNotFound)
	}
	return m, nil
}
