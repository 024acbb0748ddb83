package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNormalizerUnitRows(t *testing.T) {
	n := NewNormalizer()
	X := mat.NewDense(3, 3, []float64{
		3, 4, 0,
		1, 1, 1,
		0, 0, 2,
	})

	out, err := n.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	rows, cols := out.Dims()
	for i := 0; i < rows; i++ {
		var sumSq float64
		for j := 0; j < cols; j++ {
			sumSq += out.At(i, j) * out.At(i, j)
		}
		if math.Abs(math.Sqrt(sumSq)-1.0) > 1e-12 {
			t.Errorf("row %d norm = %v, want 1.0", i, math.Sqrt(sumSq))
		}
	}

	if math.Abs(out.At(0, 0)-0.6) > 1e-12 || math.Abs(out.At(0, 1)-0.8) > 1e-12 {
		t.Errorf("row 0 = (%v, %v), want (0.6, 0.8)", out.At(0, 0), out.At(0, 1))
	}
}

func TestNormalizerZeroRowPassesThrough(t *testing.T) {
	n := NewNormalizer()
	X := mat.NewDense(2, 2, []float64{0, 0, 1, 0})

	out, err := n.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	if out.At(0, 0) != 0 || out.At(0, 1) != 0 {
		t.Errorf("zero row changed: (%v, %v)", out.At(0, 0), out.At(0, 1))
	}
}

func TestNormalizerTransformBeforeFit(t *testing.T) {
	n := NewNormalizer()
	if _, err := n.Transform(mat.NewDense(1, 2, nil)); err == nil {
		t.Fatal("Transform() before fit succeeded, want error")
	}
}
