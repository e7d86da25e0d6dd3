package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/langprof/internal/ports"
)

// run executes one CLI invocation inside workspace.
func run(t *testing.T, workspace string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--workspace", workspace, "--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".langprof"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".langprof", "config.yaml"), []byte(`
training:
  languages: [en, ru]
  gram_lengths: [1, 2]
  profile_size: 4
corpus:
  path: `+filepath.Join(dir, "corpus.tsv")+`
model:
  name: wiki
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corpus.tsv"),
		[]byte("lang\tfulltext\nen\tthe cat sat\nru\tкот\nen\tthat\n"), 0644))
	return dir
}

func TestCLI_Lifecycle(t *testing.T) {
	ws := setupWorkspace(t)

	out, err := run(t, ws, "train")
	require.NoError(t, err)
	assert.Contains(t, out, `model "wiki" trained`)
	assert.Contains(t, out, "examples: 3")

	out, err = run(t, ws, "models", "--json")
	require.NoError(t, err)
	var infos []ports.ModelInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "wiki", infos[0].Name)
	assert.Equal(t, []string{"en", "ru"}, infos[0].Languages)
	assert.LessOrEqual(t, infos[0].Grams, 8)

	out, err = run(t, ws, "inspect", "wiki", "--lang", "ru", "--top", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "ru")
	assert.Contains(t, out, "(top 2 of")
	assert.Contains(t, out, `\x`, "partial Cyrillic bytes are escaped")

	export := filepath.Join(t.TempDir(), "wiki.msgpack")
	_, err = run(t, ws, "export", "wiki", "-o", export)
	require.NoError(t, err)

	_, err = run(t, ws, "import", export, "--name", "copy")
	require.NoError(t, err)

	out, err = run(t, ws, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "2 models")
	assert.Contains(t, out, "copy")

	_, err = run(t, ws, "delete", "copy")
	require.NoError(t, err)
	_, err = run(t, ws, "delete", "copy")
	assert.ErrorIs(t, err, ports.ErrModelNotFound)
}

func TestCLI_FlagsOverrideConfig(t *testing.T) {
	ws := setupWorkspace(t)

	out, err := run(t, ws, "config", "--model", "other", "--langs", "de,nl", "--profile-size", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "name: other")
	assert.Contains(t, out, "- de")
	assert.Contains(t, out, "profile_size: 9")
}

func TestCLI_ZeroProfileSizeRejected(t *testing.T) {
	ws := setupWorkspace(t)

	_, err := run(t, ws, "train", "--profile-size", "0")
	assert.ErrorContains(t, err, "training.profile_size")

	out, err := run(t, ws, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "no models stored")
}

func TestCLI_TrainMissingLanguage(t *testing.T) {
	ws := setupWorkspace(t)

	_, err := run(t, ws, "train", "--langs", "en,fr")
	assert.ErrorContains(t, err, `language "fr": no training examples`)

	out, err := run(t, ws, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "no models stored")
}

func TestCLI_InspectUnknown(t *testing.T) {
	ws := setupWorkspace(t)
	_, err := run(t, ws, "inspect", "nope")
	assert.ErrorIs(t, err, ports.ErrModelNotFound)
}

func TestCLI_ExplicitConfigMissing(t *testing.T) {
	ws := setupWorkspace(t)
	_, err := run(t, ws, "--config", filepath.Join(ws, "missing.toml"), "models")
	assert.Error(t, err)
}
