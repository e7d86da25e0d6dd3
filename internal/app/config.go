package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"

	"github.com/corey/langprof/internal/adapters/corpus"
	"github.com/corey/langprof/internal/domain/langid"
)

// DefaultModelName is used when model.name is not set.
const DefaultModelName = "default"

// Config is the full langprof configuration.
type Config struct {
	Training TrainingConfig `yaml:"training" toml:"training"`
	Corpus   CorpusConfig   `yaml:"corpus" toml:"corpus"`
	Model    ModelConfig    `yaml:"model" toml:"model"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

type TrainingConfig struct {
	Languages   []string `yaml:"languages" toml:"languages"`
	GramLengths []int    `yaml:"gram_lengths" toml:"gram_lengths"`
	ProfileSize int      `yaml:"profile_size" toml:"profile_size"`
	LabelColumn string   `yaml:"label_column" toml:"label_column"`
	InputColumn string   `yaml:"input_column" toml:"input_column"`
	Normalize   string   `yaml:"normalize" toml:"normalize"`
	Workers     int      `yaml:"workers" toml:"workers"`
	Partitions  int      `yaml:"partitions" toml:"partitions"`
}

type CorpusConfig struct {
	Path   string `yaml:"path" toml:"path"`
	Format string `yaml:"format" toml:"format"`
	Table  string `yaml:"table" toml:"table"`
}

type ModelConfig struct {
	Name string `yaml:"name" toml:"name"`
}

type LogConfig struct {
	Level      string `yaml:"level" toml:"level"`
	File       string `yaml:"file" toml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
}

// DefaultConfig returns a config with every optional key at its default.
func DefaultConfig() Config {
	return Config{
		Training: TrainingConfig{
			GramLengths: append([]int(nil), langid.DefaultGramLengths...),
			ProfileSize: langid.DefaultProfileSize,
			LabelColumn: corpus.DefaultLabelColumn,
			InputColumn: corpus.DefaultInputColumn,
		},
		Corpus: CorpusConfig{Table: corpus.DefaultTable},
		Model:  ModelConfig{Name: DefaultModelName},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadConfig reads path over DefaultConfig. When explicit is false a missing
// file yields the defaults; when true it is an error.
func LoadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, &cfg)
	case ".toml":
		var meta toml.MetaData
		meta, err = toml.Decode(string(data), &cfg)
		if err == nil {
			if undec := meta.Undecoded(); len(undec) > 0 {
				err = fmt.Errorf("unknown key %q", undec[0].String())
			}
		}
	default:
		return cfg, fmt.Errorf("%s: unsupported config format %q", path, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the keys that have no meaning outside their allowed values.
// Training languages are checked later by langid.New, since commands like
// "models" need no training section.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch c.Corpus.Format {
	case "", corpus.FormatTSV, corpus.FormatCSV, corpus.FormatJSONL, corpus.FormatSQLite:
	default:
		return fmt.Errorf("corpus.format: unknown format %q", c.Corpus.Format)
	}
	if c.Training.Workers < 0 {
		return fmt.Errorf("training.workers: must not be negative")
	}
	if c.Training.Partitions < 0 {
		return fmt.Errorf("training.partitions: must not be negative")
	}
	if c.Training.ProfileSize <= 0 {
		return fmt.Errorf("training.profile_size: must be positive, got %d", c.Training.ProfileSize)
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model.name: must not be empty")
	}
	return nil
}

// LangidConfig converts the training section into the core's config.
func (c Config) LangidConfig() langid.Config {
	return langid.Config{
		Languages:   append([]string(nil), c.Training.Languages...),
		GramLengths: append([]int(nil), c.Training.GramLengths...),
		ProfileSize: c.Training.ProfileSize,
		Normalize:   c.Training.Normalize,
	}
}

// CorpusOptions converts the corpus-related keys into reader options.
func (c Config) CorpusOptions() corpus.Options {
	return corpus.Options{
		LabelColumn: c.Training.LabelColumn,
		InputColumn: c.Training.InputColumn,
		Table:       c.Corpus.Table,
	}
}

// YAML renders the effective configuration.
func (c Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
