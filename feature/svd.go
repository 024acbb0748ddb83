package feature

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// TruncatedSVD projects a count matrix onto its top NComponents right
// singular vectors, the LSA step of the embedding pipeline. The projection
// axes are learned on the training matrix only; Transform applies them
// unchanged to any later input. Refitting per call would silently change the
// feature space and is a correctness bug, not a design choice.
type TruncatedSVD struct {
	state *model.StateManager

	nComponents int
	seed        int64

	// components holds V_k, n_features x n_components.
	components *mat.Dense
}

// SVDOption is a functional option for TruncatedSVD.
type SVDOption func(*TruncatedSVD)

// WithNComponents sets the target dimensionality.
func WithNComponents(k int) SVDOption {
	return func(s *TruncatedSVD) {
		s.nComponents = k
	}
}

// WithSVDSeed sets the seed used by randomized solvers. The exact thin-SVD
// factorization used here is already deterministic; the option is carried for
// API parity.
func WithSVDSeed(seed int64) SVDOption {
	return func(s *TruncatedSVD) {
		s.seed = seed
	}
}

// NewTruncatedSVD creates a TruncatedSVD with the pipeline default of 200
// components.
func NewTruncatedSVD(opts ...SVDOption) *TruncatedSVD {
	s := &TruncatedSVD{
		state:       model.NewStateManager(),
		nComponents: 200,
		seed:        42,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NComponents returns the configured target dimensionality.
func (s *TruncatedSVD) NComponents() int {
	return s.nComponents
}

// Fit learns the projection axes from X via a thin SVD factorization.
func (s *TruncatedSVD) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewValueError("TruncatedSVD.Fit", "empty matrix")
	}
	maxRank := r
	if c < maxRank {
		maxRank = c
	}
	if s.nComponents <= 0 || s.nComponents > maxRank {
		return errors.NewValueError("TruncatedSVD.Fit", "n_components must be in [1, min(n_samples, n_features)]")
	}

	var svd mat.SVD
	if ok := svd.Factorize(X, mat.SVDThin); !ok {
		return errors.NewValueError("TruncatedSVD.Fit", "SVD factorization failed to converge")
	}

	var v mat.Dense
	svd.VTo(&v)

	s.components = mat.DenseCopyOf(v.Slice(0, c, 0, s.nComponents))
	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform projects X onto the fitted axes, X_reduced = X * V_k.
func (s *TruncatedSVD) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.RequireFitted("TruncatedSVD", "Transform"); err != nil {
		return nil, err
	}

	_, c := X.Dims()
	nFeatures, _ := s.state.GetDimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("TruncatedSVD.Transform", nFeatures, c, 1)
	}

	var out mat.Dense
	out.Mul(X, s.components)
	return &out, nil
}

// FitTransform fits the projection on X and returns the reduced matrix.
func (s *TruncatedSVD) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
