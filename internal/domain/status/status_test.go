package status

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/langprof/internal/ports"
)

var ln2 = math.Log(2)

func testModel() *ports.LanguageModel {
	return ports.NewLanguageModel([]int{1}, []string{"de", "en", "fr"}, map[string][]float64{
		"a": {0, ln2, 0},
		"b": {0, ln2, 0},
		"c": {0, 0, ln2},
		"d": {0.3, 0.3, 0}, // tie, owned by nobody
	}, time.Time{})
}

func TestGenerate_OK(t *testing.T) {
	data := Generate("wiki", testModel(), 12, 1500*time.Millisecond, nil)
	assert.Equal(t, "wiki", data.Model)
	assert.Equal(t, StateOK, data.State)
	assert.Empty(t, data.Error)
	assert.Equal(t, int64(1500), data.ElapsedMs)
	assert.Equal(t, 12, data.Examples)
	assert.Equal(t, 4, data.Grams)
	assert.Equal(t, []Leader{{"en", 2}, {"fr", 1}}, data.Leaders)
}

func TestGenerate_Failed(t *testing.T) {
	data := Generate("wiki", nil, 0, time.Second, errors.New(`langid: language "fr": no training examples`))
	assert.Equal(t, StateFailed, data.State)
	assert.Contains(t, data.Error, "no training examples")
	assert.Zero(t, data.Grams)
	assert.Nil(t, data.Leaders)
}

func TestLeaders_LimitedAndSorted(t *testing.T) {
	m := ports.NewLanguageModel([]int{1}, []string{"a", "b", "c", "d"}, map[string][]float64{
		"1": {1, 0, 0, 0},
		"2": {0, 1, 0, 0},
		"3": {0, 0, 1, 0},
		"4": {0, 0, 0, 1},
		"5": {0, 0, 0, 1},
	}, time.Time{})
	assert.Equal(t, []Leader{{"d", 2}, {"a", 1}, {"b", 1}}, leaders(m, 3))
}

func TestWriteJSON_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), StatusFile)
	require.NoError(t, WriteJSON(path, Generate("wiki", testModel(), 3, 0, nil)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, "ok", parsed["state"])
	assert.NotContains(t, parsed, "error")
}

func TestWriteJSON_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), StatusFile)
	require.NoError(t, WriteJSON(path, Generate("wiki", testModel(), 3, 0, nil)))
	require.NoError(t, WriteJSON(path, Generate("wiki", nil, 0, 0, errors.New("boom"))))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got StatusData
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, StateFailed, got.State)
	assert.Equal(t, "boom", got.Error)
}
