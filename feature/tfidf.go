package feature

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/core/parallel"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// parallelRowThreshold is the document count below which row transforms run
// sequentially. Single-text prediction always takes the sequential path.
const parallelRowThreshold = 64

// TfidfVectorizer is the sparse-frequency strategy: a vocabulary-capped
// unigram+bigram term-frequency matrix with smoothed inverse-document-
// frequency weighting, sublinear TF scaling and L2 row normalization.
// Deterministic for a fixed corpus and cap.
type TfidfVectorizer struct {
	state *model.StateManager

	maxFeatures int
	sublinearTF bool

	vocabulary map[string]int
	idf        []float64
	nDocs      int
}

// TfidfOption is a functional option for TfidfVectorizer.
type TfidfOption func(*TfidfVectorizer)

// WithTfidfMaxFeatures caps the vocabulary at the n most frequent terms.
func WithTfidfMaxFeatures(n int) TfidfOption {
	return func(v *TfidfVectorizer) {
		v.maxFeatures = n
	}
}

// WithSublinearTF toggles 1+ln(tf) term-frequency scaling.
func WithSublinearTF(enabled bool) TfidfOption {
	return func(v *TfidfVectorizer) {
		v.sublinearTF = enabled
	}
}

// NewTfidfVectorizer creates a TfidfVectorizer with the defaults used by the
// comparison pipeline: 15000 features, sublinear TF.
func NewTfidfVectorizer(opts ...TfidfOption) *TfidfVectorizer {
	v := &TfidfVectorizer{
		state:       model.NewStateManager(),
		maxFeatures: 15000,
		sublinearTF: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NFeatures returns the fitted vocabulary size.
func (v *TfidfVectorizer) NFeatures() int {
	return len(v.vocabulary)
}

// FitTransform builds the vocabulary and IDF table from docs and returns the
// weighted training matrix.
func (v *TfidfVectorizer) FitTransform(docs []string) (mat.Matrix, error) {
	if len(docs) == 0 {
		return nil, errors.NewValueError("TfidfVectorizer.FitTransform", "empty corpus")
	}

	tokenized := make([][]string, len(docs))
	for i, d := range docs {
		tokenized[i] = tokenize(d)
	}

	v.vocabulary = buildVocabulary(tokenized, v.maxFeatures)
	if len(v.vocabulary) == 0 {
		return nil, errors.NewValueError("TfidfVectorizer.FitTransform", "corpus produced an empty vocabulary")
	}
	v.nDocs = len(docs)

	// Smoothed IDF: ln((1+n)/(1+df)) + 1. Smoothing keeps unseen-at-transform
	// terms finite and every fitted weight strictly positive.
	df := documentFrequencies(tokenized, v.vocabulary)
	v.idf = make([]float64, len(df))
	for i, d := range df {
		v.idf[i] = math.Log(float64(1+v.nDocs)/float64(1+d)) + 1.0
	}

	v.state.SetDimensions(len(v.vocabulary), len(docs))
	v.state.SetFitted()

	return v.weigh(tokenized), nil
}

// Transform featurizes docs with the fitted vocabulary and IDF table.
// Documents made entirely of unseen tokens become zero rows.
func (v *TfidfVectorizer) Transform(docs []string) (mat.Matrix, error) {
	if err := v.state.RequireFitted("TfidfVectorizer", "Transform"); err != nil {
		return nil, err
	}

	tokenized := make([][]string, len(docs))
	for i, d := range docs {
		tokenized[i] = tokenize(d)
	}
	return v.weigh(tokenized), nil
}

// weigh builds the TF-IDF matrix for pre-tokenized documents. Rows are
// independent, so the work is fanned out across cores.
func (v *TfidfVectorizer) weigh(tokenized [][]string) *mat.Dense {
	nFeatures := len(v.vocabulary)
	X := mat.NewDense(len(tokenized), nFeatures, nil)

	parallel.ParallelizeWithThreshold(len(tokenized), parallelRowThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			counts := termCounts(tokenized[i], v.vocabulary)

			var sumSq float64
			row := make(map[int]float64, len(counts))
			for idx, c := range counts {
				tf := c
				if v.sublinearTF {
					tf = 1.0 + math.Log(c)
				}
				w := tf * v.idf[idx]
				row[idx] = w
				sumSq += w * w
			}

			if sumSq == 0 {
				continue
			}
			norm := math.Sqrt(sumSq)
			for idx, w := range row {
				X.Set(i, idx, w/norm)
			}
		}
	})

	return X
}
