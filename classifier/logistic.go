package classifier

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// LogisticRegression is a binary linear probabilistic classifier trained by
// full-batch gradient descent with an adaptive learning rate and L2 penalty.
// If the iteration budget runs out before the gradient falls below the
// tolerance, a ConvergenceWarning is emitted and the partially converged
// model is used as-is.
type LogisticRegression struct {
	state *model.StateManager

	c            float64 // inverse regularization strength
	fitIntercept bool
	maxIter      int
	tol          float64
	randomState  int64

	classes   []int
	weights   []float64
	intercept float64
	nIter     int
}

// LogisticRegressionOption is a functional option for LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// WithLRC sets the inverse regularization strength.
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.c = c
	}
}

// WithLRMaxIter sets the maximum number of iterations.
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRTol sets the tolerance for the stopping criterion.
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRFitIntercept sets whether to fit an intercept term.
func WithLRFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRRandomState seeds the weight initialization, making training
// deterministic.
func WithLRRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

// NewLogisticRegression creates a LogisticRegression with the pipeline
// defaults: C 1.0, 1000 iterations, tolerance 1e-4, seed 42.
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		c:            1.0,
		fitIntercept: true,
		maxIter:      1000,
		tol:          1e-4,
		randomState:  42,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Classes returns the class labels seen during fitting, sorted ascending.
func (lr *LogisticRegression) Classes() []int {
	return lr.classes
}

// NIter returns the number of gradient iterations actually run.
func (lr *LogisticRegression) NIter() int {
	return lr.nIter
}

// Fit trains the model with gradient descent on the logistic loss.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures, err := validateXY(X, y, "LogisticRegression.Fit")
	if err != nil {
		return err
	}

	classes, _ := extractClasses(y)
	if len(classes) != 2 {
		return errors.NewValueError("LogisticRegression.Fit", "only binary classification is supported")
	}
	lr.classes = classes

	// Targets in {0, 1} with the larger class label mapped to 1.
	targets := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		if int(y.At(i, 0)) == classes[1] {
			targets[i] = 1.0
		}
	}

	rng := rand.New(rand.NewSource(lr.randomState))
	lr.weights = make([]float64, nFeatures)
	for j := range lr.weights {
		lr.weights[j] = rng.NormFloat64() * 0.01
	}
	lr.intercept = 0

	baseLearningRate := 1.0
	lambda := 1.0 / lr.c
	converged := false

	for iter := 0; iter < lr.maxIter; iter++ {
		gradWeights := make([]float64, nFeatures)
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := lr.intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * lr.weights[j]
			}
			residual := sigmoid(z) - targets[i]
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += residual * X.At(i, j)
			}
		}

		for j := range gradWeights {
			gradWeights[j] = gradWeights[j]/float64(nSamples) + lambda*lr.weights[j]/float64(nSamples)
		}
		gradIntercept /= float64(nSamples)

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))
		for j := range lr.weights {
			lr.weights[j] -= learningRate * gradWeights[j]
		}
		if lr.fitIntercept {
			lr.intercept -= learningRate * gradIntercept
		}

		lr.nIter = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter, ""))
	}

	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

// Predict classifies each sample at the 0.5 probability threshold.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		if probas.At(i, 1) >= 0.5 {
			predictions.Set(i, 0, float64(lr.classes[1]))
		} else {
			predictions.Set(i, 0, float64(lr.classes[0]))
		}
	}
	return predictions, nil
}

// PredictProba returns [P(class0), P(class1)] per sample.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "PredictProba"); err != nil {
		return nil, err
	}

	nSamples, nFeatures := X.Dims()
	fitted, _ := lr.state.GetDimensions()
	if nFeatures != fitted {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", fitted, nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, 2, nil)
	for i := 0; i < nSamples; i++ {
		z := lr.intercept
		for j := 0; j < nFeatures; j++ {
			z += X.At(i, j) * lr.weights[j]
		}
		p1 := sigmoid(z)
		probas.Set(i, 0, 1.0-p1)
		probas.Set(i, 1, p1)
	}
	return probas, nil
}
