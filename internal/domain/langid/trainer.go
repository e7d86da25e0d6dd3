package langid

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/corey/langprof/internal/domain/dataset"
	"github.com/corey/langprof/internal/ports"
)

// Trainer runs the training pipeline for one Config.
// A Trainer holds no per-run state and is safe for concurrent use; every Fit
// call owns its own intermediate datasets.
type Trainer struct {
	cfg    Config
	opts   dataset.Options
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Trainer) { t.logger = l }
}

// WithParallelism sets worker and partition counts for the datasets.
func WithParallelism(workers, partitions int) Option {
	return func(t *Trainer) { t.opts = dataset.Options{Workers: workers, Partitions: partitions} }
}

// withClock overrides time.Now; used by tests.
func withClock(now func() time.Time) Option {
	return func(t *Trainer) { t.now = now }
}

// New validates cfg and creates a Trainer. Empty GramLengths take
// DefaultGramLengths.
func New(cfg Config, opts ...Option) (*Trainer, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Trainer{cfg: cfg, logger: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Config returns the effective configuration.
func (t *Trainer) Config() Config {
	return t.cfg
}

// Fit trains a model from examples. Examples labeled with unsupported
// languages are ignored. Every supported language needs at least one
// example; otherwise Fit fails with a *ConfigurationError naming the first
// such language before any gram is extracted.
//
// Fit either returns a complete model or an error, never a partial model.
func (t *Trainer) Fit(ctx context.Context, examples []ports.TrainingExample) (*ports.LanguageModel, error) {
	start := t.now()
	langs := t.cfg.Languages
	log := t.logger.With(zap.Strings("languages", langs))

	input := dataset.Parallelize(examples, t.opts)
	supported := languageSet(langs)
	labeled, err := dataset.Filter(ctx, input, func(ex ports.TrainingExample) bool {
		return supported[ex.Lang]
	})
	if err != nil {
		return nil, err
	}
	if err := checkCoverage(ctx, labeled, langs); err != nil {
		return nil, err
	}
	log.Debug("training examples", zap.Int("kept", labeled.Len()), zap.Int("dropped", input.Len()-labeled.Len()))

	obs, err := ExtractGrams(ctx, labeled, t.cfg.GramLengths, t.cfg.Normalize)
	if err != nil {
		return nil, err
	}
	log.Debug("grams extracted", zap.Int("observations", obs.Len()))

	counts, err := AggregateGrams(ctx, obs, langs)
	if err != nil {
		return nil, err
	}
	log.Debug("grams aggregated", zap.Int("records", counts.Len()))

	vectors, err := EstimateScores(ctx, counts, langs)
	if err != nil {
		return nil, err
	}
	log.Debug("scores estimated", zap.Int("grams", vectors.Len()))

	profile, err := SelectProfile(ctx, vectors, langs, t.cfg.ProfileSize)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]float64, len(profile))
	for g, s := range profile {
		out[string(g)] = s
	}
	model := ports.NewLanguageModel(t.cfg.GramLengths, langs, out, t.now())

	log.Info("model trained",
		zap.Int("examples", labeled.Len()),
		zap.Int("profile_grams", model.Len()),
		zap.Duration("elapsed", t.now().Sub(start)),
	)
	return model, nil
}

// checkCoverage fails with the first language in langs that has no example.
func checkCoverage(ctx context.Context, labeled *dataset.Dataset[ports.TrainingExample], langs []string) error {
	perLang, err := dataset.ReduceByKey(ctx, labeled,
		func(ex ports.TrainingExample) (string, int) { return ex.Lang, 1 },
		func(a, b int) int { return a + b },
	)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(langs))
	for _, kv := range perLang.Collect() {
		have[kv.Key] = kv.Value > 0
	}
	for _, lang := range langs {
		if !have[lang] {
			return errNoExamples(lang)
		}
	}
	return nil
}
