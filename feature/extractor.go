package feature

import "gonum.org/v1/gonum/mat"

// Extractor is the contract both featurization strategies satisfy. A fitted
// extractor owns its vocabulary and any learned projection; Transform reuses
// that state unchanged and never refits.
type Extractor interface {
	// FitTransform learns the extractor state from the training corpus and
	// returns its feature matrix.
	FitTransform(docs []string) (mat.Matrix, error)

	// Transform featurizes documents with the already-fitted state.
	Transform(docs []string) (mat.Matrix, error)
}
