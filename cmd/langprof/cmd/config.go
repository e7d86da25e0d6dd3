package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newConfigCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Shows workspace paths and the configuration after defaults, config file and flags are applied.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := st.cfg.YAML()
			if err != nil {
				return err
			}

			source := st.flags.configPath
			if source == "" {
				source = st.paths.Config
				if _, err := os.Stat(source); err != nil {
					source += dimColor.Sprint(" (not found, defaults)")
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, boldColor.Sprint("⚡ langprof config"))
			fmt.Fprintf(out, "  Workspace:  %s\n", st.paths.Root)
			fmt.Fprintf(out, "  Config:     %s\n", source)
			fmt.Fprintf(out, "  DB:         %s\n", st.paths.DB)
			fmt.Fprintln(out)
			fmt.Fprint(out, body)
			return nil
		},
	}
}
