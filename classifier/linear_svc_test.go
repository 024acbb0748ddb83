package classifier

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/core/model"
)

// blobFixture returns two linearly separable clusters, nPerClass samples
// each.
func blobFixture(nPerClass int) (*mat.Dense, *mat.Dense) {
	n := 2 * nPerClass
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < nPerClass; i++ {
		spread := 0.1 * float64(i%5)
		X.Set(i, 0, -2.0-spread)
		X.Set(i, 1, -1.5+spread)
		y.Set(i, 0, 0)

		X.Set(nPerClass+i, 0, 2.0+spread)
		X.Set(nPerClass+i, 1, 1.5-spread)
		y.Set(nPerClass+i, 0, 1)
	}
	return X, y
}

func TestLinearSVCSeparable(t *testing.T) {
	X, y := blobFixture(10)
	svc := NewLinearSVC()
	if err := svc.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	predictions, err := svc.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	rows, _ := X.Dims()
	for i := 0; i < rows; i++ {
		if predictions.At(i, 0) != y.At(i, 0) {
			t.Errorf("sample %d predicted %v, want %v", i, predictions.At(i, 0), y.At(i, 0))
		}
	}
}

func TestLinearSVCDecisionFunctionSigns(t *testing.T) {
	X, y := blobFixture(10)
	svc := NewLinearSVC()
	if err := svc.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	scores, err := svc.DecisionFunction(X)
	if err != nil {
		t.Fatalf("DecisionFunction() error = %v", err)
	}
	for i, s := range scores {
		positive := y.At(i, 0) == 1
		if positive && s <= 0 {
			t.Errorf("positive sample %d has margin %v", i, s)
		}
		if !positive && s >= 0 {
			t.Errorf("negative sample %d has margin %v", i, s)
		}
	}
}

func TestLinearSVCDeterministicWithSeed(t *testing.T) {
	X, y := blobFixture(10)

	a := NewLinearSVC(WithSVCRandomState(7))
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	b := NewLinearSVC(WithSVCRandomState(7))
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	scoresA, err := a.DecisionFunction(X)
	if err != nil {
		t.Fatalf("DecisionFunction() error = %v", err)
	}
	scoresB, err := b.DecisionFunction(X)
	if err != nil {
		t.Fatalf("DecisionFunction() error = %v", err)
	}
	for i := range scoresA {
		if scoresA[i] != scoresB[i] {
			t.Fatalf("same seed produced different margins at %d: %v vs %v", i, scoresA[i], scoresB[i])
		}
	}
}

func TestLinearSVCHasNoProbabilities(t *testing.T) {
	// The raw SVC exposes margins only. Probability support comes from the
	// calibrated wrapper, and callers discover the difference through the
	// capability interface.
	var clf model.Classifier = NewLinearSVC()
	if _, ok := clf.(model.ProbabilityEstimator); ok {
		t.Fatal("LinearSVC unexpectedly implements ProbabilityEstimator")
	}
}

func TestLinearSVCRejectsMulticlass(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{0, 0, 1, 1, 2, 2})
	y := mat.NewDense(3, 1, []float64{0, 1, 2})
	svc := NewLinearSVC()
	if err := svc.Fit(X, y); err == nil {
		t.Fatal("Fit() with three classes succeeded, want error")
	}
}
