package feature

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/core/parallel"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// CountVectorizer builds a vocabulary-capped unigram+bigram raw count matrix.
// It is the first stage of the dense embedding pipeline; the SVD projection
// fits on its output.
type CountVectorizer struct {
	state *model.StateManager

	maxFeatures int
	vocabulary  map[string]int
}

// CountOption is a functional option for CountVectorizer.
type CountOption func(*CountVectorizer)

// WithCountMaxFeatures caps the vocabulary at the n most frequent terms.
func WithCountMaxFeatures(n int) CountOption {
	return func(v *CountVectorizer) {
		v.maxFeatures = n
	}
}

// NewCountVectorizer creates a CountVectorizer with the pipeline default of
// 20000 features.
func NewCountVectorizer(opts ...CountOption) *CountVectorizer {
	v := &CountVectorizer{
		state:       model.NewStateManager(),
		maxFeatures: 20000,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NFeatures returns the fitted vocabulary size.
func (v *CountVectorizer) NFeatures() int {
	return len(v.vocabulary)
}

// FitTransform builds the vocabulary from docs and returns the count matrix.
func (v *CountVectorizer) FitTransform(docs []string) (mat.Matrix, error) {
	if len(docs) == 0 {
		return nil, errors.NewValueError("CountVectorizer.FitTransform", "empty corpus")
	}

	tokenized := make([][]string, len(docs))
	for i, d := range docs {
		tokenized[i] = tokenize(d)
	}

	v.vocabulary = buildVocabulary(tokenized, v.maxFeatures)
	if len(v.vocabulary) == 0 {
		return nil, errors.NewValueError("CountVectorizer.FitTransform", "corpus produced an empty vocabulary")
	}

	v.state.SetDimensions(len(v.vocabulary), len(docs))
	v.state.SetFitted()

	return v.count(tokenized), nil
}

// Transform counts in-vocabulary terms with the fitted vocabulary. Unseen
// tokens are ignored.
func (v *CountVectorizer) Transform(docs []string) (mat.Matrix, error) {
	if err := v.state.RequireFitted("CountVectorizer", "Transform"); err != nil {
		return nil, err
	}

	tokenized := make([][]string, len(docs))
	for i, d := range docs {
		tokenized[i] = tokenize(d)
	}
	return v.count(tokenized), nil
}

func (v *CountVectorizer) count(tokenized [][]string) *mat.Dense {
	X := mat.NewDense(len(tokenized), len(v.vocabulary), nil)

	parallel.ParallelizeWithThreshold(len(tokenized), parallelRowThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for idx, c := range termCounts(tokenized[i], v.vocabulary) {
				X.Set(i, idx, c)
			}
		}
	})

	return X
}
