package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corey/langprof/internal/app"
)

// rootFlags are the persistent flags shared by every command. Config keys
// are only overridden by flags the user actually set.
type rootFlags struct {
	workspace   string
	configPath  string
	corpus      string
	format      string
	model       string
	languages   []string
	gramLengths []int
	profileSize int
	workers     int
	partitions  int
	logLevel    string
	color       string
	noColor     bool
}

// state is resolved once per invocation in PersistentPreRunE.
type state struct {
	flags    rootFlags
	paths    *app.Paths
	cfg      app.Config
	logger   *zap.Logger
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	st := &state{}
	root := &cobra.Command{
		Use:           "langprof",
		Short:         "langprof, byte n-gram language profiles",
		Long:          "Trains per-language byte n-gram profiles from labeled text and manages the stored models.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return st.teardown()
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&st.flags.workspace, "workspace", "C", "", "Workspace root holding .langprof/ (default: current directory)")
	f.StringVar(&st.flags.configPath, "config", "", "Config file, .yaml or .toml (default: .langprof/config.yaml)")
	f.StringVar(&st.flags.corpus, "corpus", "", "Corpus file (overrides corpus.path)")
	f.StringVar(&st.flags.format, "format", "", "Corpus format: tsv, csv, jsonl, sqlite (overrides corpus.format)")
	f.StringVarP(&st.flags.model, "model", "m", "", "Model name to train into (overrides model.name)")
	f.StringSliceVarP(&st.flags.languages, "langs", "l", nil, "Supported languages, in order (overrides training.languages)")
	f.IntSliceVar(&st.flags.gramLengths, "gram-lengths", nil, "N-gram lengths (overrides training.gram_lengths)")
	f.IntVar(&st.flags.profileSize, "profile-size", 0, "Grams kept per language (overrides training.profile_size)")
	f.IntVar(&st.flags.workers, "workers", 0, "Parallel workers (overrides training.workers)")
	f.IntVar(&st.flags.partitions, "partitions", 0, "Dataset partitions (overrides training.partitions)")
	f.StringVar(&st.flags.logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")
	f.StringVar(&st.flags.color, "color", "auto", "Color output: auto, always or never")
	f.BoolVar(&st.flags.noColor, "no-color", false, "Disable color output")

	root.AddCommand(newTrainCmd(st))
	root.AddCommand(newModelsCmd(st))
	root.AddCommand(newInspectCmd(st))
	root.AddCommand(newExportCmd(st))
	root.AddCommand(newImportCmd(st))
	root.AddCommand(newDeleteCmd(st))
	root.AddCommand(newConfigCmd(st))
	return root
}

func (st *state) setup(cmd *cobra.Command) error {
	root := st.flags.workspace
	if root == "" {
		dir, err := os.Getwd()
		if err != nil {
			return err
		}
		root = dir
	}
	st.paths = app.NewPaths(root)

	cfgPath, explicit := st.flags.configPath, st.flags.configPath != ""
	if !explicit {
		cfgPath = st.paths.Config
	}
	cfg, err := app.LoadConfig(cfgPath, explicit)
	if err != nil {
		return err
	}
	st.cfg = st.applyFlags(cmd, cfg)
	if err := st.cfg.Validate(); err != nil {
		return err
	}

	setColor(resolveColor(st.flags.color, st.flags.noColor))

	if f := st.cfg.Log.File; f != "" && !filepath.IsAbs(f) {
		st.cfg.Log.File = filepath.Join(st.paths.LogDir, f)
	}

	logger, closeLog, err := app.NewLogger(st.cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	st.logger, st.closeLog = logger, closeLog
	return nil
}

func (st *state) applyFlags(cmd *cobra.Command, cfg app.Config) app.Config {
	changed := cmd.Flags().Changed
	if changed("corpus") {
		cfg.Corpus.Path = st.flags.corpus
	}
	if changed("format") {
		cfg.Corpus.Format = st.flags.format
	}
	if changed("model") {
		cfg.Model.Name = st.flags.model
	}
	if changed("langs") {
		cfg.Training.Languages = st.flags.languages
	}
	if changed("gram-lengths") {
		cfg.Training.GramLengths = st.flags.gramLengths
	}
	if changed("profile-size") {
		cfg.Training.ProfileSize = st.flags.profileSize
	}
	if changed("workers") {
		cfg.Training.Workers = st.flags.workers
	}
	if changed("partitions") {
		cfg.Training.Partitions = st.flags.partitions
	}
	if changed("log-level") {
		cfg.Log.Level = st.flags.logLevel
	}
	return cfg
}

func (st *state) teardown() error {
	if st.closeLog == nil {
		return nil
	}
	return st.closeLog()
}

// Execute runs the root command.
func Execute() error {
	root := newRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "%s %v\n", errorColor.Sprint("error:"), err)
	}
	return err
}
