package feature

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
	"github.com/YuminosukeSato/cybershield/preprocessing"
)

// EmbeddingVectorizer is the dense-semantic strategy: raw term counts
// projected onto a low-rank subspace by TruncatedSVD and L2-normalized per
// row. The result approximates semantic embeddings without pretrained word
// vectors. Output values may be negative, which is why the factory pairs this
// strategy with GaussianNB rather than MultinomialNB.
type EmbeddingVectorizer struct {
	state *model.StateManager

	counts     *CountVectorizer
	svd        *TruncatedSVD
	normalizer *preprocessing.Normalizer
}

// EmbeddingOption is a functional option for EmbeddingVectorizer.
type EmbeddingOption func(*EmbeddingVectorizer)

// WithEmbeddingMaxFeatures caps the count vocabulary.
func WithEmbeddingMaxFeatures(n int) EmbeddingOption {
	return func(v *EmbeddingVectorizer) {
		v.counts = NewCountVectorizer(WithCountMaxFeatures(n))
	}
}

// WithEmbeddingComponents sets the SVD target dimensionality.
func WithEmbeddingComponents(k int) EmbeddingOption {
	return func(v *EmbeddingVectorizer) {
		v.svd = NewTruncatedSVD(WithNComponents(k))
	}
}

// NewEmbeddingVectorizer creates an EmbeddingVectorizer with the pipeline
// defaults: 20000-term vocabulary, 200 components.
func NewEmbeddingVectorizer(opts ...EmbeddingOption) *EmbeddingVectorizer {
	v := &EmbeddingVectorizer{
		state:      model.NewStateManager(),
		counts:     NewCountVectorizer(),
		svd:        NewTruncatedSVD(),
		normalizer: preprocessing.NewNormalizer(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NComponents returns the embedding dimensionality.
func (v *EmbeddingVectorizer) NComponents() int {
	return v.svd.NComponents()
}

// FitTransform fits the count vocabulary and the SVD projection on docs and
// returns the normalized embedding matrix. The projection axes are learned
// here once and reused by every Transform call.
func (v *EmbeddingVectorizer) FitTransform(docs []string) (mat.Matrix, error) {
	Xc, err := v.counts.FitTransform(docs)
	if err != nil {
		return nil, errors.Wrap(err, "embedding: count stage")
	}

	// Small corpora cannot support the default rank; clamp to the matrix rank
	// bound so toy datasets and tests behave like sklearn's TruncatedSVD.
	r, c := Xc.Dims()
	maxRank := r
	if c < maxRank {
		maxRank = c
	}
	if v.svd.NComponents() > maxRank {
		v.svd = NewTruncatedSVD(WithNComponents(maxRank))
	}

	Xr, err := v.svd.FitTransform(Xc)
	if err != nil {
		return nil, errors.Wrap(err, "embedding: svd stage")
	}

	Xn, err := v.normalizer.FitTransform(Xr)
	if err != nil {
		return nil, errors.Wrap(err, "embedding: normalize stage")
	}

	v.state.SetDimensions(v.svd.NComponents(), len(docs))
	v.state.SetFitted()
	return Xn, nil
}

// Transform featurizes docs through the fitted count vocabulary, the fitted
// projection axes and row normalization.
func (v *EmbeddingVectorizer) Transform(docs []string) (mat.Matrix, error) {
	if err := v.state.RequireFitted("EmbeddingVectorizer", "Transform"); err != nil {
		return nil, err
	}

	Xc, err := v.counts.Transform(docs)
	if err != nil {
		return nil, errors.Wrap(err, "embedding: count stage")
	}
	Xr, err := v.svd.Transform(Xc)
	if err != nil {
		return nil, errors.Wrap(err, "embedding: svd stage")
	}
	Xn, err := v.normalizer.Transform(Xr)
	if err != nil {
		return nil, errors.Wrap(err, "embedding: normalize stage")
	}
	return Xn, nil
}
