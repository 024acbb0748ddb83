package classifier

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// LinearSVC is a linear maximum-margin classifier trained with Pegasos-style
// stochastic subgradient descent on the L2-regularized hinge loss. It exposes
// a DecisionFunction but deliberately no PredictProba: margins are not
// probabilities. The factory wraps it in a CalibratedClassifier when
// confidence output is required.
type LinearSVC struct {
	state *model.StateManager

	c           float64 // inverse regularization strength
	maxIter     int     // epochs over the training set
	randomState int64

	classes   []int
	weights   []float64
	intercept float64
}

// LinearSVCOption is a functional option for LinearSVC.
type LinearSVCOption func(*LinearSVC)

// WithSVCC sets the inverse regularization strength.
func WithSVCC(c float64) LinearSVCOption {
	return func(s *LinearSVC) {
		s.c = c
	}
}

// WithSVCMaxIter sets the number of training epochs.
func WithSVCMaxIter(maxIter int) LinearSVCOption {
	return func(s *LinearSVC) {
		s.maxIter = maxIter
	}
}

// WithSVCRandomState seeds the epoch shuffling, making training
// deterministic.
func WithSVCRandomState(seed int64) LinearSVCOption {
	return func(s *LinearSVC) {
		s.randomState = seed
	}
}

// NewLinearSVC creates a LinearSVC with the pipeline defaults: C 1.0,
// 2000 epochs, seed 42.
func NewLinearSVC(opts ...LinearSVCOption) *LinearSVC {
	s := &LinearSVC{
		state:       model.NewStateManager(),
		c:           1.0,
		maxIter:     2000,
		randomState: 42,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classes returns the class labels seen during fitting, sorted ascending.
func (s *LinearSVC) Classes() []int {
	return s.classes
}

// Fit trains the margin classifier. Labels are mapped to {-1, +1} with the
// larger class label on the positive side.
func (s *LinearSVC) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures, err := validateXY(X, y, "LinearSVC.Fit")
	if err != nil {
		return err
	}

	classes, _ := extractClasses(y)
	if len(classes) != 2 {
		return errors.NewValueError("LinearSVC.Fit", "only binary classification is supported")
	}
	s.classes = classes

	signs := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		if int(y.At(i, 0)) == classes[1] {
			signs[i] = 1.0
		} else {
			signs[i] = -1.0
		}
	}

	s.weights = make([]float64, nFeatures)
	s.intercept = 0

	lambda := 1.0 / (s.c * float64(nSamples))
	rng := rand.New(rand.NewSource(s.randomState))
	order := make([]int, nSamples)
	for i := range order {
		order[i] = i
	}

	t := 0
	for epoch := 0; epoch < s.maxIter; epoch++ {
		rng.Shuffle(nSamples, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		for _, i := range order {
			t++
			eta := 1.0 / (lambda * float64(t))

			margin := s.intercept
			for j := 0; j < nFeatures; j++ {
				margin += s.weights[j] * X.At(i, j)
			}
			margin *= signs[i]

			// Shrink then, on a margin violation, step toward the sample.
			shrink := 1.0 - eta*lambda
			for j := range s.weights {
				s.weights[j] *= shrink
			}
			if margin < 1 {
				for j := 0; j < nFeatures; j++ {
					s.weights[j] += eta * signs[i] * X.At(i, j)
				}
				s.intercept += eta * signs[i]
			}
		}
	}

	s.state.SetDimensions(nFeatures, nSamples)
	s.state.SetFitted()
	return nil
}

// DecisionFunction returns the signed distance of each sample to the
// separating hyperplane. Positive values side with Classes()[1].
func (s *LinearSVC) DecisionFunction(X mat.Matrix) ([]float64, error) {
	if err := s.state.RequireFitted("LinearSVC", "DecisionFunction"); err != nil {
		return nil, err
	}

	nSamples, nFeatures := X.Dims()
	fitted, _ := s.state.GetDimensions()
	if nFeatures != fitted {
		return nil, errors.NewDimensionError("LinearSVC.DecisionFunction", fitted, nFeatures, 1)
	}

	scores := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		z := s.intercept
		for j := 0; j < nFeatures; j++ {
			z += s.weights[j] * X.At(i, j)
		}
		scores[i] = z
	}
	return scores, nil
}

// Predict classifies each sample by the sign of its decision value.
func (s *LinearSVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := s.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	predictions := mat.NewDense(len(scores), 1, nil)
	for i, z := range scores {
		if z >= 0 {
			predictions.Set(i, 0, float64(s.classes[1]))
		} else {
			predictions.Set(i, 0, float64(s.classes[0]))
		}
	}
	return predictions, nil
}
