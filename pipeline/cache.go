package pipeline

import (
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/feature"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// Entry is one trained configuration: the fitted classifier together with
// the fitted extractor that produced its feature space. They travel as a
// pair; transforming prediction input with any other extractor would feed
// the classifier coordinates it was never trained on.
type Entry struct {
	Classifier model.Classifier
	Strategy   feature.Strategy
	Extractor  feature.Extractor
}

// Cache holds trained configurations keyed by ModelKey. It is safe for
// concurrent use: training one key while predicting with another needs no
// external coordination. Re-training a key replaces its entry atomically.
type Cache struct {
	mu      sync.RWMutex
	entries map[ModelKey]Entry
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[ModelKey]Entry)}
}

// Put stores or replaces the entry for key.
func (c *Cache) Put(key ModelKey, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
}

// Get returns the entry for key and whether it exists.
func (c *Cache) Get(key ModelKey) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// Contains reports whether key has a trained entry.
func (c *Cache) Contains(key ModelKey) bool {
	_, ok := c.Get(key)
	return ok
}

// Len returns the number of trained entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the trained keys in canonical configuration order.
func (c *Cache) Keys() []ModelKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lo.Filter(AllKeys(), func(key ModelKey, _ int) bool {
		_, ok := c.entries[key]
		return ok
	})
}

// PredictOne classifies a single text with the trained configuration under
// key. The stored extractor transforms the text into the exact feature
// space the classifier was trained on. Confidence is the winning-class
// probability, or nil when the classifier exposes none.
func (c *Cache) PredictOne(key ModelKey, text string) (*Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewEmptyInputError("PredictOne")
	}

	cfg, err := GetConfig(key)
	if err != nil {
		return nil, err
	}

	entry, ok := c.Get(key)
	if !ok {
		return nil, errors.NewNotTrainedError(string(key))
	}

	start := time.Now()

	X, err := entry.Extractor.Transform([]string{text})
	if err != nil {
		return nil, errors.Wrapf(err, "PredictOne %s: transform", key)
	}

	predictions, err := entry.Classifier.Predict(X)
	if err != nil {
		return nil, errors.Wrapf(err, "PredictOne %s: predict", key)
	}
	label := int(predictions.At(0, 0))

	var confidence *float64
	if estimator, ok := entry.Classifier.(model.ProbabilityEstimator); ok {
		probas, err := estimator.PredictProba(X)
		if err != nil {
			return nil, errors.Wrapf(err, "PredictOne %s: probabilities", key)
		}
		_, nClasses := probas.Dims()
		best := probas.At(0, 0)
		for j := 1; j < nClasses; j++ {
			if probas.At(0, j) > best {
				best = probas.At(0, j)
			}
		}
		confidence = &best
	}

	return &Prediction{
		ModelKey:     key,
		DisplayName:  cfg.DisplayName,
		Text:         text,
		Label:        label,
		DisplayLabel: DisplayLabel(label),
		Confidence:   confidence,
		LatencySec:   time.Since(start).Seconds(),
	}, nil
}

// PredictAll classifies text with every trained configuration, in canonical
// order. A configuration that fails contributes an Outcome carrying its
// error; untrained configurations are skipped entirely. The two cases are
// distinct on purpose: "errored" and "absent" mean different things to the
// caller.
func (c *Cache) PredictAll(text string) ([]Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewEmptyInputError("PredictAll")
	}

	outcomes := make([]Outcome, 0, len(configOrder))
	for _, key := range c.Keys() {
		prediction, err := c.PredictOne(key, text)
		outcomes = append(outcomes, Outcome{Key: key, Prediction: prediction, Err: err})
	}
	return outcomes, nil
}
