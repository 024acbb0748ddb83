package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for trainable estimators.
type Fitter interface {
	// Fit trains the estimator on X (n_samples x n_features) and labels y
	// (n_samples x 1).
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for estimators that produce label predictions.
type Predictor interface {
	// Predict returns an n_samples x 1 matrix of predicted class labels.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Classifier is the uniform surface the evaluation engine works against.
// Every classifier family implements it regardless of whether it can produce
// probabilities.
type Classifier interface {
	Fitter
	Predictor
}

// ProbabilityEstimator is the optional capability of classifiers that emit
// calibrated class probabilities. The engine asserts this interface once; a
// classifier that does not implement it reports confidence as absent, never
// as zero.
type ProbabilityEstimator interface {
	// PredictProba returns an n_samples x n_classes matrix of class
	// probabilities. Rows sum to 1.
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// Transformer is the interface for fitted matrix-to-matrix transforms such as
// the SVD projection and the row normalizer.
type Transformer interface {
	// Fit learns the transform parameters from X.
	Fit(X mat.Matrix) error

	// Transform applies the fitted transform to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits on X and returns the transformed X.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
