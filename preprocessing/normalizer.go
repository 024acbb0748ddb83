// Package preprocessing provides matrix preprocessing transforms used by the
// feature pipelines.
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/core/parallel"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// Normalizer scales every sample (row) to unit L2 norm. It is the final
// stage of the dense embedding pipeline, where the SVD output can carry
// arbitrary magnitudes. Zero rows pass through unchanged.
type Normalizer struct {
	state *model.StateManager
}

// NewNormalizer creates a new L2 row Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		state: model.NewStateManager(),
	}
}

// Fit is stateless for a row normalizer; it only records the input
// dimensions so the transformer lifecycle matches the other stages.
func (n *Normalizer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewValueError("Normalizer.Fit", "empty matrix")
	}
	n.state.SetDimensions(c, r)
	n.state.SetFitted()
	return nil
}

// Transform returns X with every row scaled to unit L2 norm.
func (n *Normalizer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := n.state.RequireFitted("Normalizer", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	out := mat.NewDense(r, c, nil)

	parallel.ParallelizeWithThreshold(r, 64, func(start, end int) {
		for i := start; i < end; i++ {
			var sumSq float64
			for j := 0; j < c; j++ {
				v := X.At(i, j)
				sumSq += v * v
			}
			if sumSq == 0 {
				continue
			}
			norm := math.Sqrt(sumSq)
			for j := 0; j < c; j++ {
				out.Set(i, j, X.At(i, j)/norm)
			}
		}
	})

	return out, nil
}

// FitTransform fits on X and returns the normalized matrix.
func (n *Normalizer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := n.Fit(X); err != nil {
		return nil, err
	}
	return n.Transform(X)
}
