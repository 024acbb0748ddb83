// Package classifier implements the classifier families of the comparison
// pipeline and the factory that pairs them with a feature strategy. All
// classifiers are binary (labels 0 and 1) and follow the estimator idiom of
// core/model: functional options, StateManager composition, Fit/Predict on
// gonum matrices, and PredictProba as an optional capability.
package classifier

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// MultinomialNB is a multinomial naive Bayes classifier for non-negative
// frequency features (raw or TF-IDF-weighted counts). Fractional feature
// values are accepted.
type MultinomialNB struct {
	state *model.StateManager

	alpha float64 // Laplace/Lidstone smoothing

	classes        []int
	classLogPrior  []float64
	featureLogProb [][]float64 // n_classes x n_features
}

// MultinomialNBOption is a functional option for MultinomialNB.
type MultinomialNBOption func(*MultinomialNB)

// WithNBAlpha sets the additive smoothing parameter.
func WithNBAlpha(alpha float64) MultinomialNBOption {
	return func(nb *MultinomialNB) {
		nb.alpha = alpha
	}
}

// NewMultinomialNB creates a MultinomialNB with alpha 1.0.
func NewMultinomialNB(opts ...MultinomialNBOption) *MultinomialNB {
	nb := &MultinomialNB{
		state: model.NewStateManager(),
		alpha: 1.0,
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// Classes returns the class labels seen during fitting, sorted ascending.
func (nb *MultinomialNB) Classes() []int {
	return nb.classes
}

// Fit estimates class priors and smoothed feature log-likelihoods.
// Negative feature values are a contract violation: this family must only be
// paired with non-negative feature strategies.
func (nb *MultinomialNB) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures, err := validateXY(X, y, "MultinomialNB.Fit")
	if err != nil {
		return err
	}

	classes, classIndex := extractClasses(y)
	if len(classes) < 2 {
		return errors.NewValueError("MultinomialNB.Fit", "need at least 2 classes")
	}
	nb.classes = classes

	counts := make([][]float64, len(classes))
	totals := make([]float64, len(classes))
	classCounts := make([]float64, len(classes))
	for c := range counts {
		counts[c] = make([]float64, nFeatures)
	}

	for i := 0; i < nSamples; i++ {
		c := classIndex[int(y.At(i, 0))]
		classCounts[c]++
		for j := 0; j < nFeatures; j++ {
			v := X.At(i, j)
			if v < 0 {
				return errors.NewValueError("MultinomialNB.Fit", "negative feature values are not supported; use GaussianNB for dense embeddings")
			}
			counts[c][j] += v
			totals[c] += v
		}
	}

	nb.classLogPrior = make([]float64, len(classes))
	nb.featureLogProb = make([][]float64, len(classes))
	for c := range classes {
		nb.classLogPrior[c] = math.Log(classCounts[c] / float64(nSamples))
		nb.featureLogProb[c] = make([]float64, nFeatures)
		denom := totals[c] + nb.alpha*float64(nFeatures)
		for j := 0; j < nFeatures; j++ {
			nb.featureLogProb[c][j] = math.Log((counts[c][j] + nb.alpha) / denom)
		}
	}

	nb.state.SetDimensions(nFeatures, nSamples)
	nb.state.SetFitted()
	return nil
}

// jointLogLikelihood computes log P(c) + sum_j x_j * log P(j|c) per class.
func (nb *MultinomialNB) jointLogLikelihood(X mat.Matrix, i int) []float64 {
	_, nFeatures := X.Dims()
	jll := make([]float64, len(nb.classes))
	for c := range nb.classes {
		s := nb.classLogPrior[c]
		for j := 0; j < nFeatures; j++ {
			if v := X.At(i, j); v != 0 {
				s += v * nb.featureLogProb[c][j]
			}
		}
		jll[c] = s
	}
	return jll
}

// Predict returns the class with the highest joint log-likelihood per sample.
func (nb *MultinomialNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.state.RequireFitted("MultinomialNB", "Predict"); err != nil {
		return nil, err
	}
	if err := nb.checkFeatures(X, "MultinomialNB.Predict"); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		jll := nb.jointLogLikelihood(X, i)
		predictions.Set(i, 0, float64(nb.classes[argmax(jll)]))
	}
	return predictions, nil
}

// PredictProba returns normalized class probabilities computed from the
// joint log-likelihoods via log-sum-exp.
func (nb *MultinomialNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.state.RequireFitted("MultinomialNB", "PredictProba"); err != nil {
		return nil, err
	}
	if err := nb.checkFeatures(X, "MultinomialNB.PredictProba"); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	probas := mat.NewDense(nSamples, len(nb.classes), nil)
	for i := 0; i < nSamples; i++ {
		softmaxInto(probas, i, nb.jointLogLikelihood(X, i))
	}
	return probas, nil
}

func (nb *MultinomialNB) checkFeatures(X mat.Matrix, op string) error {
	_, c := X.Dims()
	nFeatures, _ := nb.state.GetDimensions()
	if c != nFeatures {
		return errors.NewDimensionError(op, nFeatures, c, 1)
	}
	return nil
}
