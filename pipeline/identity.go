// Package pipeline orchestrates the model comparison: it trains one
// configuration (feature strategy x classifier family) at a time, measures
// it, caches the fitted pair for later prediction, and ranks results by F1.
// All state lives in explicit Cache and Ranking values owned by the caller;
// there are no package-level singletons, so independent pipelines (one per
// dataset, one per test) never interfere.
package pipeline

import (
	"github.com/YuminosukeSato/cybershield/classifier"
	"github.com/YuminosukeSato/cybershield/feature"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// ModelKey identifies one trainable configuration. Keys are stable: they
// name the cache entry and the ranking slot of the configuration.
type ModelKey string

const (
	KeyTfidfNaiveBayes ModelKey = "tfidf_naive_bayes"
	KeyTfidfSVM        ModelKey = "tfidf_svm"
	KeyTfidfLogistic   ModelKey = "tfidf_logistic_regression"
	KeyW2VNaiveBayes   ModelKey = "w2v_naive_bayes"
	KeyW2VSVM          ModelKey = "w2v_svm"
	KeyW2VLogistic     ModelKey = "w2v_logistic_regression"
)

// Config describes one model configuration.
type Config struct {
	Key         ModelKey          `json:"model_key"`
	DisplayName string            `json:"display_name"`
	Description string            `json:"description"`
	Strategy    feature.Strategy  `json:"feature"`
	Family      classifier.Family `json:"classifier"`
}

// configOrder fixes the canonical iteration order of the six
// configurations. Listings, train-all and predict-all follow it.
var configOrder = []ModelKey{
	KeyTfidfNaiveBayes,
	KeyTfidfSVM,
	KeyTfidfLogistic,
	KeyW2VNaiveBayes,
	KeyW2VSVM,
	KeyW2VLogistic,
}

var configs = map[ModelKey]Config{
	KeyTfidfNaiveBayes: {
		Key:         KeyTfidfNaiveBayes,
		DisplayName: "TF-IDF + Naive Bayes",
		Description: "Multinomial Naive Bayes with TF-IDF features - fast probabilistic baseline",
		Strategy:    feature.StrategyTFIDF,
		Family:      classifier.FamilyNaiveBayes,
	},
	KeyTfidfSVM: {
		Key:         KeyTfidfSVM,
		DisplayName: "TF-IDF + SVM",
		Description: "Linear SVM with TF-IDF features - strong margin-based classifier",
		Strategy:    feature.StrategyTFIDF,
		Family:      classifier.FamilySVM,
	},
	KeyTfidfLogistic: {
		Key:         KeyTfidfLogistic,
		DisplayName: "TF-IDF + Logistic Regression",
		Description: "Logistic Regression with TF-IDF - interpretable linear model",
		Strategy:    feature.StrategyTFIDF,
		Family:      classifier.FamilyLogisticRegression,
	},
	KeyW2VNaiveBayes: {
		Key:         KeyW2VNaiveBayes,
		DisplayName: "Word Embeddings + Naive Bayes",
		Description: "Gaussian Naive Bayes with dense LSA embeddings - semantic feature baseline",
		Strategy:    feature.StrategyEmbeddings,
		Family:      classifier.FamilyNaiveBayes,
	},
	KeyW2VSVM: {
		Key:         KeyW2VSVM,
		DisplayName: "Word Embeddings + SVM",
		Description: "Linear SVM with dense LSA embeddings - semantic margin classifier",
		Strategy:    feature.StrategyEmbeddings,
		Family:      classifier.FamilySVM,
	},
	KeyW2VLogistic: {
		Key:         KeyW2VLogistic,
		DisplayName: "Word Embeddings + Logistic Regression",
		Description: "Logistic Regression with dense LSA embeddings - interpretable semantic model",
		Strategy:    feature.StrategyEmbeddings,
		Family:      classifier.FamilyLogisticRegression,
	},
}

// ParseModelKey resolves a raw key string against the closed configuration
// set.
func ParseModelKey(raw string) (ModelKey, error) {
	key := ModelKey(raw)
	if _, ok := configs[key]; !ok {
		return "", errors.NewConfigurationError("model_key", raw)
	}
	return key, nil
}

// GetConfig returns the configuration for a key.
func GetConfig(key ModelKey) (Config, error) {
	cfg, ok := configs[key]
	if !ok {
		return Config{}, errors.NewConfigurationError("model_key", string(key))
	}
	return cfg, nil
}

// AllKeys returns the six model keys in canonical order.
func AllKeys() []ModelKey {
	keys := make([]ModelKey, len(configOrder))
	copy(keys, configOrder)
	return keys
}

// ConfigStatus is a configuration plus its training status against a cache.
type ConfigStatus struct {
	Config
	IsTrained bool `json:"is_trained"`
}

// Configs lists all configurations in canonical order with their training
// status.
func Configs(cache *Cache) []ConfigStatus {
	out := make([]ConfigStatus, 0, len(configOrder))
	for _, key := range configOrder {
		out = append(out, ConfigStatus{
			Config:    configs[key],
			IsTrained: cache != nil && cache.Contains(key),
		})
	}
	return out
}
