package classifier

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// MarginClassifier is implemented by margin-based classifiers that expose
// raw, uncalibrated decision values.
type MarginClassifier interface {
	model.Classifier
	DecisionFunction(X mat.Matrix) ([]float64, error)
	Classes() []int
}

// CalibratedClassifier turns a margin classifier into a probability
// estimator using cross-validated Platt scaling: the data is split into cv
// stratified folds, a fresh base classifier is fitted on each fold's
// complement, and a one-dimensional logistic calibrator is fitted on the
// held-out decision values. PredictProba averages the fold ensemble.
type CalibratedClassifier struct {
	state *model.StateManager

	cv          int
	baseFactory func() MarginClassifier

	classes []int
	folds   []calibratedFold
}

type calibratedFold struct {
	base       MarginClassifier
	calibrator *LogisticRegression
}

// CalibratedOption is a functional option for CalibratedClassifier.
type CalibratedOption func(*CalibratedClassifier)

// WithCalibrationCV sets the number of calibration folds.
func WithCalibrationCV(cv int) CalibratedOption {
	return func(c *CalibratedClassifier) {
		c.cv = cv
	}
}

// NewCalibratedClassifier creates a CalibratedClassifier around the margin
// classifiers produced by baseFactory, with the pipeline default of 3 folds.
func NewCalibratedClassifier(baseFactory func() MarginClassifier, opts ...CalibratedOption) *CalibratedClassifier {
	c := &CalibratedClassifier{
		state:       model.NewStateManager(),
		cv:          3,
		baseFactory: baseFactory,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classes returns the class labels seen during fitting, sorted ascending.
func (c *CalibratedClassifier) Classes() []int {
	return c.classes
}

// Fit trains one base classifier and one Platt calibrator per fold.
func (c *CalibratedClassifier) Fit(X, y mat.Matrix) error {
	nSamples, _, err := validateXY(X, y, "CalibratedClassifier.Fit")
	if err != nil {
		return err
	}

	classes, classIndex := extractClasses(y)
	if len(classes) != 2 {
		return errors.NewValueError("CalibratedClassifier.Fit", "only binary classification is supported")
	}
	c.classes = classes

	folds := c.stratifiedFolds(y, nSamples, classIndex)
	for _, held := range folds {
		if len(held) == 0 {
			return errors.NewValueError("CalibratedClassifier.Fit", "not enough samples per class for the requested number of folds")
		}
	}

	c.folds = make([]calibratedFold, 0, c.cv)
	for f, held := range folds {
		heldSet := make(map[int]bool, len(held))
		for _, i := range held {
			heldSet[i] = true
		}
		train := make([]int, 0, nSamples-len(held))
		for i := 0; i < nSamples; i++ {
			if !heldSet[i] {
				train = append(train, i)
			}
		}

		base := c.baseFactory()
		if err := base.Fit(subsetRows(X, train), subsetRows(y, train)); err != nil {
			return errors.Wrapf(err, "calibration fold %d: base fit", f)
		}

		scores, err := base.DecisionFunction(subsetRows(X, held))
		if err != nil {
			return errors.Wrapf(err, "calibration fold %d: decision values", f)
		}

		// Platt scaling is a 1-D logistic regression on the margin.
		calibrator := NewLogisticRegression(WithLRMaxIter(200), WithLRRandomState(0))
		dfMat := mat.NewDense(len(held), 1, scores)
		if err := calibrator.Fit(dfMat, subsetRows(y, held)); err != nil {
			return errors.Wrapf(err, "calibration fold %d: calibrator fit", f)
		}

		c.folds = append(c.folds, calibratedFold{base: base, calibrator: calibrator})
	}

	_, nFeatures := X.Dims()
	c.state.SetDimensions(nFeatures, nSamples)
	c.state.SetFitted()
	return nil
}

// stratifiedFolds deals each class's sample indices round-robin into cv
// folds, preserving class balance and input order within each fold.
func (c *CalibratedClassifier) stratifiedFolds(y mat.Matrix, nSamples int, classIndex map[int]int) [][]int {
	folds := make([][]int, c.cv)
	counters := make([]int, len(classIndex))
	for i := 0; i < nSamples; i++ {
		cls := classIndex[int(y.At(i, 0))]
		f := counters[cls] % c.cv
		folds[f] = append(folds[f], i)
		counters[cls]++
	}
	return folds
}

// PredictProba averages the calibrated fold probabilities.
func (c *CalibratedClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := c.state.RequireFitted("CalibratedClassifier", "PredictProba"); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	probas := mat.NewDense(nSamples, 2, nil)

	for _, fold := range c.folds {
		scores, err := fold.base.DecisionFunction(X)
		if err != nil {
			return nil, err
		}
		foldProbas, err := fold.calibrator.PredictProba(mat.NewDense(nSamples, 1, scores))
		if err != nil {
			return nil, err
		}
		for i := 0; i < nSamples; i++ {
			probas.Set(i, 0, probas.At(i, 0)+foldProbas.At(i, 0))
			probas.Set(i, 1, probas.At(i, 1)+foldProbas.At(i, 1))
		}
	}

	scale := 1.0 / float64(len(c.folds))
	probas.Scale(scale, probas)
	return probas, nil
}

// Predict classifies each sample by the larger averaged probability.
func (c *CalibratedClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		if probas.At(i, 1) >= probas.At(i, 0) {
			predictions.Set(i, 0, float64(c.classes[1]))
		} else {
			predictions.Set(i, 0, float64(c.classes[0]))
		}
	}
	return predictions, nil
}

// subsetRows copies the given rows of X into a new dense matrix.
func subsetRows(X mat.Matrix, rows []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(r, j))
		}
	}
	return out
}
