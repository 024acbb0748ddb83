package classifier

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// validateXY checks that X and y agree on sample count and that y is a
// column vector. Returns (nSamples, nFeatures).
func validateXY(X, y mat.Matrix, op string) (int, int, error) {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return 0, 0, errors.NewValueError(op, "empty matrix")
	}
	if yCols != 1 {
		return 0, 0, errors.NewValueError(op, "y must be a column vector (n x 1 matrix)")
	}
	if yRows != nSamples {
		return 0, 0, errors.NewDimensionError(op, nSamples, yRows, 0)
	}
	return nSamples, nFeatures, nil
}

// extractClasses returns the sorted unique integer labels in y and a map
// from label to its index in the sorted slice.
func extractClasses(y mat.Matrix) ([]int, map[int]int) {
	rows, _ := y.Dims()
	seen := make(map[int]bool)
	for i := 0; i < rows; i++ {
		seen[int(y.At(i, 0))] = true
	}

	classes := make([]int, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	index := make(map[int]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return classes, index
}

// argmax returns the index of the largest value; the first one wins on ties.
func argmax(vals []float64) int {
	best := 0
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[best] {
			best = i
		}
	}
	return best
}

// softmaxInto writes exp-normalized scores into row i of out, shifted by the
// max score for numerical stability.
func softmaxInto(out *mat.Dense, i int, scores []float64) {
	maxScore := scores[argmax(scores)]
	var sum float64
	for _, s := range scores {
		sum += math.Exp(s - maxScore)
	}
	for c, s := range scores {
		out.Set(i, c, math.Exp(s-maxScore)/sum)
	}
}

// sigmoid computes the logistic function.
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
