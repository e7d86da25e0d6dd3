package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/langprof/internal/adapters/msgpack"
)

func newExportCmd(st *state) *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "export <name>",
		Short: "Write a stored model to a portable MessagePack file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			store, err := openStore(st.paths)
			if err != nil {
				return err
			}
			defer store.Close()

			model, err := loadModel(store, name)
			if err != nil {
				return err
			}
			if output == "" {
				output = st.paths.ExportPath(name)
			}
			if err := msgpack.WriteFile(output, name, model); err != nil {
				return fmt.Errorf("export %q: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s → %s\n", nameColor.Sprint(name), output)
			return nil
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "", "Destination file (default: .langprof/export/<name>.msgpack)")
	return c
}

func newImportCmd(st *state) *cobra.Command {
	var name string
	c := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a model from a MessagePack file",
		Long:  "Stores the model under --name, or under the name recorded in the file. An existing model of that name is replaced.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, model, err := msgpack.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			if name == "" {
				name = stored
			}
			if name == "" {
				return errors.New("model file has no name; pass --name")
			}

			store, err := openStore(st.paths)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveModel(name, model); err != nil {
				return fmt.Errorf("save model %q: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%d grams)\n", nameColor.Sprint(name), model.Len())
			return nil
		},
	}
	c.Flags().StringVar(&name, "name", "", "Store under this name")
	return c
}

func newDeleteCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			store, err := openStore(st.paths)
			if err != nil {
				return err
			}
			defer store.Close()

			if _, err := loadModel(store, name); err != nil {
				return err
			}
			if err := store.DeleteModel(name); err != nil {
				return fmt.Errorf("delete model %q: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", nameColor.Sprint(name))
			return nil
		},
	}
}
