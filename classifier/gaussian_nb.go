package classifier

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// GaussianNB is a Gaussian naive Bayes classifier for continuous,
// unconstrained features. The dense embedding strategy produces values that
// can be negative after normalization, which rules out MultinomialNB; this
// variant models each feature as a per-class normal distribution instead.
type GaussianNB struct {
	state *model.StateManager

	varSmoothing float64

	classes       []int
	classLogPrior []float64
	theta         [][]float64 // per-class feature means
	sigma         [][]float64 // per-class feature variances
}

// GaussianNBOption is a functional option for GaussianNB.
type GaussianNBOption func(*GaussianNB)

// WithVarSmoothing sets the fraction of the largest feature variance added
// to every variance for numerical stability.
func WithVarSmoothing(eps float64) GaussianNBOption {
	return func(nb *GaussianNB) {
		nb.varSmoothing = eps
	}
}

// NewGaussianNB creates a GaussianNB with variance smoothing 1e-9.
func NewGaussianNB(opts ...GaussianNBOption) *GaussianNB {
	nb := &GaussianNB{
		state:        model.NewStateManager(),
		varSmoothing: 1e-9,
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// Classes returns the class labels seen during fitting, sorted ascending.
func (nb *GaussianNB) Classes() []int {
	return nb.classes
}

// Fit estimates per-class feature means and variances.
func (nb *GaussianNB) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures, err := validateXY(X, y, "GaussianNB.Fit")
	if err != nil {
		return err
	}

	classes, classIndex := extractClasses(y)
	if len(classes) < 2 {
		return errors.NewValueError("GaussianNB.Fit", "need at least 2 classes")
	}
	nb.classes = classes

	classCounts := make([]float64, len(classes))
	nb.theta = make([][]float64, len(classes))
	nb.sigma = make([][]float64, len(classes))
	for c := range classes {
		nb.theta[c] = make([]float64, nFeatures)
		nb.sigma[c] = make([]float64, nFeatures)
	}

	for i := 0; i < nSamples; i++ {
		c := classIndex[int(y.At(i, 0))]
		classCounts[c]++
		for j := 0; j < nFeatures; j++ {
			nb.theta[c][j] += X.At(i, j)
		}
	}
	for c := range classes {
		for j := 0; j < nFeatures; j++ {
			nb.theta[c][j] /= classCounts[c]
		}
	}

	var maxVar float64
	for i := 0; i < nSamples; i++ {
		c := classIndex[int(y.At(i, 0))]
		for j := 0; j < nFeatures; j++ {
			d := X.At(i, j) - nb.theta[c][j]
			nb.sigma[c][j] += d * d
		}
	}
	for c := range classes {
		for j := 0; j < nFeatures; j++ {
			nb.sigma[c][j] /= classCounts[c]
			if nb.sigma[c][j] > maxVar {
				maxVar = nb.sigma[c][j]
			}
		}
	}

	// Guard against zero variance on constant features.
	eps := nb.varSmoothing * maxVar
	if eps == 0 {
		eps = nb.varSmoothing
	}
	for c := range classes {
		for j := 0; j < nFeatures; j++ {
			nb.sigma[c][j] += eps
		}
	}

	nb.classLogPrior = make([]float64, len(classes))
	for c := range classes {
		nb.classLogPrior[c] = math.Log(classCounts[c] / float64(nSamples))
	}

	nb.state.SetDimensions(nFeatures, nSamples)
	nb.state.SetFitted()
	return nil
}

func (nb *GaussianNB) jointLogLikelihood(X mat.Matrix, i int) []float64 {
	_, nFeatures := X.Dims()
	jll := make([]float64, len(nb.classes))
	for c := range nb.classes {
		s := nb.classLogPrior[c]
		for j := 0; j < nFeatures; j++ {
			d := X.At(i, j) - nb.theta[c][j]
			s += -0.5*math.Log(2*math.Pi*nb.sigma[c][j]) - d*d/(2*nb.sigma[c][j])
		}
		jll[c] = s
	}
	return jll
}

// Predict returns the class with the highest joint log-likelihood per sample.
func (nb *GaussianNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.state.RequireFitted("GaussianNB", "Predict"); err != nil {
		return nil, err
	}
	if err := nb.checkFeatures(X, "GaussianNB.Predict"); err != nil {
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

// PredictProba returns normalized class probabilities via log-sum-exp.
func (nb *GaussianNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.state.RequireFitted("GaussianNB", "PredictProba"); err != nil {
		return nil, err
	}
	if err := nb.checkFeatures(X, "GaussianNB.PredictProba"); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	probas := mat.NewDense(nSamples, len(nb.classes), nil)
	for i := 0; i < nSamples; i++ {
		softmaxInto(probas, i, nb.jointLogLikelihood(X, i))
	}
	return probas, nil
}

func (nb *GaussianNB) checkFeatures(X mat.Matrix, op string) error {
	_, c := X.Dims()
	nFeatures, _ := nb.state.GetDimensions()
	if c != nFeatures {
		return errors.NewDimensionError(op, nFeatures, c, 1)
	}
	return nil
}
