package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/corey/langprof/internal/adapters/bbolt"
	"github.com/corey/langprof/internal/domain/langid"
	"github.com/corey/langprof/internal/domain/status"
	"github.com/corey/langprof/internal/ports"
)

const testCorpus = "lang\tfulltext\nen\tthe cat\nen\tthat\nfr\tle chat\n"

func newTestService(t *testing.T, corpusBody string, langs ...string) (*TrainService, *bbolt.Store, string) {
	t.Helper()
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "corpus.tsv")
	require.NoError(t, os.WriteFile(corpusPath, []byte(corpusBody), 0644))

	store, err := bbolt.NewStore(filepath.Join(dir, "models.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := DefaultConfig()
	cfg.Training.Languages = langs
	cfg.Training.GramLengths = []int{1, 2}
	cfg.Training.ProfileSize = 5
	cfg.Corpus.Path = corpusPath
	cfg.Model.Name = "test"
	return NewTrainService(cfg, store, nil), store, corpusPath
}

func TestTrainService_Train(t *testing.T) {
	svc, store, _ := newTestService(t, testCorpus, "en", "fr")
	statusPath := filepath.Join(t.TempDir(), "status.json")
	svc.SetStatusFile(statusPath)

	res, err := svc.Train(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", res.Name)
	assert.Equal(t, 3, res.Examples)
	assert.Equal(t, []string{"en", "fr"}, res.Model.Languages())
	assert.LessOrEqual(t, res.Model.Len(), 10)

	stored, err := store.LoadModel("test")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, res.Model.Equal(stored))

	var sd status.StatusData
	raw, err := os.ReadFile(statusPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &sd))
	assert.Equal(t, status.StateOK, sd.State)
	assert.Equal(t, res.Model.Len(), sd.Grams)
}

func TestTrainService_MissingLanguageStoresNothing(t *testing.T) {
	svc, store, _ := newTestService(t, testCorpus, "en", "de")
	statusPath := filepath.Join(t.TempDir(), "status.json")
	svc.SetStatusFile(statusPath)

	_, err := svc.Train(context.Background())
	var cfgErr *langid.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "de", cfgErr.Language)

	var sd status.StatusData
	raw, err := os.ReadFile(statusPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &sd))
	assert.Equal(t, status.StateFailed, sd.State)
	assert.Contains(t, sd.Error, `language "de"`)

	m, err := store.LoadModel("test")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestTrainService_NoLanguages(t *testing.T) {
	svc, _, _ := newTestService(t, testCorpus)
	_, err := svc.Train(context.Background())
	var cfgErr *langid.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestTrainService_BadCorpus(t *testing.T) {
	svc, _, _ := newTestService(t, "lang\tbody\nen\tx\n", "en")
	_, err := svc.Train(context.Background())
	assert.ErrorContains(t, err, "read corpus")
}

// fakeWatcher hands the registered callback to the test.
type fakeWatcher struct {
	mu       sync.Mutex
	onChange func(string)
	stopped  bool
}

func (f *fakeWatcher) Watch(path string, onChange func(string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChange = onChange
	return nil
}

func (f *fakeWatcher) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeWatcher) fire(p string) {
	f.mu.Lock()
	cb := f.onChange
	f.mu.Unlock()
	cb(p)
}

func TestTrainService_Watch(t *testing.T) {
	svc, store, corpusPath := newTestService(t, testCorpus, "en", "fr")
	core, logs := observer.New(zapcore.InfoLevel)
	svc.logger = zap.New(core)

	fw := &fakeWatcher{}
	svc.newWatcher = func() (ports.Watcher, error) { return fw, nil }

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan *TrainResult, 4)
	done := make(chan error, 1)
	go func() { done <- svc.Watch(ctx, func(r *TrainResult) { results <- r }) }()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("watching corpus").Len() == 1
	}, 2*time.Second, 5*time.Millisecond)

	fw.fire(corpusPath)
	select {
	case r := <-results:
		assert.Equal(t, 3, r.Examples)
	case <-time.After(5 * time.Second):
		t.Fatal("no retrain after change")
	}
	first, err := store.LoadModel("test")
	require.NoError(t, err)
	require.NotNil(t, first)

	// A broken corpus is logged and the stored model survives.
	require.NoError(t, os.WriteFile(corpusPath, []byte("lang\tfulltext\nen\tonly english\n"), 0644))
	fw.fire(corpusPath)
	require.Eventually(t, func() bool {
		return logs.FilterMessage("retrain failed, keeping previous model").Len() == 1
	}, 5*time.Second, 5*time.Millisecond)

	kept, err := store.LoadModel("test")
	require.NoError(t, err)
	assert.True(t, first.Equal(kept))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	assert.True(t, fw.stopped)
}

func TestTrainService_WatchWatcherError(t *testing.T) {
	svc, _, _ := newTestService(t, testCorpus, "en")
	svc.newWatcher = func() (ports.Watcher, error) { return nil, errors.New("no inotify") }
	assert.ErrorContains(t, svc.Watch(context.Background(), nil), "no inotify")
}
