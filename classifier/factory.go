package classifier

import (
	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/feature"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// Family is the closed set of classifier families.
type Family string

const (
	// FamilyNaiveBayes selects a Bayesian classifier; the concrete variant
	// depends on the feature strategy.
	FamilyNaiveBayes Family = "naive_bayes"

	// FamilySVM selects a calibrated linear maximum-margin classifier.
	FamilySVM Family = "svm"

	// FamilyLogisticRegression selects a linear probabilistic classifier.
	FamilyLogisticRegression Family = "logistic_regression"
)

// DisplayName returns the human-readable family name.
func (f Family) DisplayName() string {
	switch f {
	case FamilyNaiveBayes:
		return "Naive Bayes"
	case FamilySVM:
		return "SVM"
	case FamilyLogisticRegression:
		return "Logistic Regression"
	default:
		return string(f)
	}
}

// Create returns an untrained classifier for the family, parameterized by
// the feature strategy that feeds it. The pairing is mandatory, not an
// optimization: MultinomialNB requires non-negative inputs, so the dense
// embedding strategy (negative after normalization) gets the Gaussian
// variant instead.
func Create(family Family, strategy feature.Strategy) (model.Classifier, error) {
	switch family {
	case FamilyNaiveBayes:
		if strategy == feature.StrategyTFIDF {
			return NewMultinomialNB(WithNBAlpha(1.0)), nil
		}
		return NewGaussianNB(), nil

	case FamilySVM:
		// LinearSVC has no probability output; wrap it in cross-validated
		// Platt scaling so confidence computation is uniform across families.
		return NewCalibratedClassifier(func() MarginClassifier {
			return NewLinearSVC(
				WithSVCC(1.0),
				WithSVCMaxIter(2000),
				WithSVCRandomState(42),
			)
		}, WithCalibrationCV(3)), nil

	case FamilyLogisticRegression:
		return NewLogisticRegression(
			WithLRC(1.0),
			WithLRMaxIter(1000),
			WithLRRandomState(42),
		), nil

	default:
		return nil, errors.NewConfigurationError("classifier_family", string(family))
	}
}
