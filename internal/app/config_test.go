package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/langprof/internal/domain/langid"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_MissingDefaultFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, []int{1, 2, 3}, cfg.Training.GramLengths)
	assert.Equal(t, 300, cfg.Training.ProfileSize)
	assert.Equal(t, "lang", cfg.Training.LabelColumn)
	assert.Equal(t, "fulltext", cfg.Training.InputColumn)
	assert.Equal(t, "default", cfg.Model.Name)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.Error(t, err)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, "c.yml", `
training:
  languages: [en, fr]
  profile_size: 50
  normalize: nfc
corpus:
  path: data/corpus.jsonl
model:
  name: wiki
log:
  level: debug
`)
	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, cfg.Training.Languages)
	assert.Equal(t, 50, cfg.Training.ProfileSize)
	assert.Equal(t, []int{1, 2, 3}, cfg.Training.GramLengths, "unset keys keep defaults")
	assert.Equal(t, "data/corpus.jsonl", cfg.Corpus.Path)
	assert.Equal(t, "wiki", cfg.Model.Name)
	assert.Equal(t, "debug", cfg.Log.Level)

	lc := cfg.LangidConfig()
	assert.Equal(t, langid.NormalizeNFC, lc.Normalize)
	assert.Equal(t, 50, lc.ProfileSize)
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeConfig(t, "c.toml", `
[training]
languages = ["de", "nl"]
gram_lengths = [2, 3]
label_column = "label"

[corpus]
path = "corpus.db"
format = "sqlite"
table = "samples"
`)
	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"de", "nl"}, cfg.Training.Languages)
	assert.Equal(t, []int{2, 3}, cfg.Training.GramLengths)

	opts := cfg.CorpusOptions()
	assert.Equal(t, "label", opts.LabelColumn)
	assert.Equal(t, "fulltext", opts.InputColumn)
	assert.Equal(t, "samples", opts.Table)
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name, file, body, errPart string
	}{
		{"unknown yaml key", "c.yaml", "trainig:\n  languages: [en]\n", "trainig"},
		{"unknown toml key", "c.toml", "[training]\nlangs = [\"en\"]\n", "training.langs"},
		{"bad level", "c.yaml", "log:\n  level: loud\n", "log.level"},
		{"bad format", "c.yaml", "corpus:\n  format: xml\n", "corpus.format"},
		{"negative workers", "c.yaml", "training:\n  workers: -1\n", "training.workers"},
		{"zero profile size", "c.yaml", "training:\n  profile_size: 0\n", "training.profile_size"},
		{"zero profile size toml", "c.toml", "[training]\nprofile_size = 0\n", "training.profile_size"},
		{"empty model name", "c.yaml", "model:\n  name: \"\"\n", "model.name"},
		{"unsupported extension", "c.json", "{}", "unsupported config format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.body), true)
			assert.ErrorContains(t, err, tt.errPart)
		})
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Training.Languages = []string{"en"}
	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, out, "profile_size: 300")

	got, err := LoadConfig(writeConfig(t, "c.yaml", out), true)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
