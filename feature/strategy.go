package feature

import "github.com/YuminosukeSato/cybershield/pkg/errors"

// Strategy is the closed set of featurization strategies.
type Strategy string

const (
	// StrategyTFIDF is the sparse frequency-weighted strategy.
	StrategyTFIDF Strategy = "tfidf"

	// StrategyEmbeddings is the dense LSA-style embedding strategy.
	StrategyEmbeddings Strategy = "word_embeddings"
)

// DisplayName returns the human-readable strategy name.
func (s Strategy) DisplayName() string {
	if s == StrategyTFIDF {
		return "TF-IDF"
	}
	return "Word Embeddings"
}

// NewExtractor creates an unfitted extractor for the strategy with the
// pipeline defaults.
func NewExtractor(s Strategy) (Extractor, error) {
	switch s {
	case StrategyTFIDF:
		return NewTfidfVectorizer(), nil
	case StrategyEmbeddings:
		return NewEmbeddingVectorizer(), nil
	default:
		return nil, errors.NewConfigurationError("feature_strategy", string(s))
	}
}
