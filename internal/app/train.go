// Package app wires together adapters and domain logic: configuration,
// logging, workspace paths, and the training service that turns a corpus
// into a stored language model.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/corey/langprof/internal/adapters/corpus"
	fsw "github.com/corey/langprof/internal/adapters/fsnotify"
	"github.com/corey/langprof/internal/domain/langid"
	"github.com/corey/langprof/internal/domain/status"
	"github.com/corey/langprof/internal/ports"
)

// TrainResult describes one completed training run.
type TrainResult struct {
	Name     string
	Model    *ports.LanguageModel
	Examples int
	Elapsed  time.Duration
}

// TrainService loads the configured corpus, fits a model, and stores it.
type TrainService struct {
	cfg    Config
	store  ports.ModelStore
	logger *zap.Logger

	// newWatcher is swapped in tests.
	newWatcher func() (ports.Watcher, error)
	statusPath string

	mu sync.Mutex // serializes training runs
}

// NewTrainService creates a service. A nil logger discards output.
func NewTrainService(cfg Config, store ports.ModelStore, logger *zap.Logger) *TrainService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainService{
		cfg:    cfg,
		store:  store,
		logger: logger,
		newWatcher: func() (ports.Watcher, error) {
			return fsw.NewWatcher(fsw.DefaultDebounce)
		},
	}
}

// SetStatusFile makes every run, failed or not, write its outcome to path.
func (s *TrainService) SetStatusFile(path string) {
	s.statusPath = path
}

// Train runs one full training pass and saves the model under model.name.
// No model is written when any step fails.
func (s *TrainService) Train(ctx context.Context) (*TrainResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	res, err := s.train(ctx)
	if s.statusPath != "" {
		var sd *status.StatusData
		if err != nil {
			sd = status.Generate(s.cfg.Model.Name, nil, 0, time.Since(start), err)
		} else {
			sd = status.Generate(res.Name, res.Model, res.Examples, res.Elapsed, nil)
		}
		if werr := status.WriteJSON(s.statusPath, sd); werr != nil {
			s.logger.Warn("write status", zap.String("path", s.statusPath), zap.Error(werr))
		}
	}
	return res, err
}

func (s *TrainService) train(ctx context.Context) (*TrainResult, error) {
	start := time.Now()
	trainer, err := langid.New(s.cfg.LangidConfig(),
		langid.WithLogger(s.logger),
		langid.WithParallelism(s.cfg.Training.Workers, s.cfg.Training.Partitions))
	if err != nil {
		return nil, err
	}

	src, err := corpus.Open(s.cfg.Corpus.Path, s.cfg.Corpus.Format, s.cfg.CorpusOptions())
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	examples, err := src.Examples(ctx)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	s.logger.Debug("corpus loaded", zap.String("location", src.Location()), zap.Int("examples", len(examples)))

	model, err := trainer.Fit(ctx, examples)
	if err != nil {
		return nil, err
	}

	name := s.cfg.Model.Name
	if err := s.store.SaveModel(name, model); err != nil {
		return nil, fmt.Errorf("save model %q: %w", name, err)
	}

	return &TrainResult{
		Name:     name,
		Model:    model,
		Examples: len(examples),
		Elapsed:  time.Since(start),
	}, nil
}

// Watch retrains after every settled change to the corpus location until ctx
// is cancelled. A failed run is logged and the previously stored model stays
// in place. onResult, if non-nil, receives each successful run.
func (s *TrainService) Watch(ctx context.Context, onResult func(*TrainResult)) error {
	w, err := s.newWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	// One pending slot: changes that land during a run collapse into a
	// single follow-up run.
	changed := make(chan string, 1)
	err = w.Watch(s.cfg.Corpus.Path, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", s.cfg.Corpus.Path, err)
	}
	s.logger.Info("watching corpus", zap.String("path", s.cfg.Corpus.Path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-changed:
			s.logger.Info("corpus changed", zap.String("path", p))
			res, err := s.Train(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.logger.Warn("retrain failed, keeping previous model", zap.String("model", s.cfg.Model.Name), zap.Error(err))
				continue
			}
			if onResult != nil {
				onResult(res)
			}
		}
	}
}
