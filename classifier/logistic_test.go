package classifier

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/feature"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

func TestLogisticRegressionSeparable(t *testing.T) {
	X, y := blobFixture(10)
	lr := NewLogisticRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	predictions, err := lr.Predict(X)
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

func TestLogisticRegressionProbabilities(t *testing.T) {
	X, y := blobFixture(10)
	lr := NewLogisticRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	probas, err := lr.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	rows, _ := X.Dims()
	for i := 0; i < rows; i++ {
		p0, p1 := probas.At(i, 0), probas.At(i, 1)
		if p0 < 0 || p0 > 1 || p1 < 0 || p1 > 1 {
			t.Errorf("row %d probabilities out of range: %v, %v", i, p0, p1)
		}
		if math.Abs(p0+p1-1.0) > 1e-9 {
			t.Errorf("row %d probabilities sum to %v", i, p0+p1)
		}
		// The positive cluster sits far from the boundary.
		if y.At(i, 0) == 1 && p1 < 0.9 {
			t.Errorf("well-separated positive sample %d has P(1) = %v", i, p1)
		}
	}
}

func TestLogisticRegressionDeterministicWithSeed(t *testing.T) {
	X, y := blobFixture(10)

	a := NewLogisticRegression(WithLRRandomState(3))
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	b := NewLogisticRegression(WithLRRandomState(3))
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pa, err := a.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	pb, err := b.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	if !mat.Equal(pa, pb) {
		t.Error("same seed produced different probabilities")
	}
}

func TestLogisticRegressionConvergenceWarning(t *testing.T) {
	var warned []error
	errors.SetWarningHandler(func(w error) {
		warned = append(warned, w)
	})
	defer errors.SetWarningHandler(func(error) {})

	// One iteration cannot converge on this problem.
	X, y := blobFixture(10)
	lr := NewLogisticRegression(WithLRMaxIter(1))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	found := false
	for _, w := range warned {
		var cw *errors.ConvergenceWarning
		if errors.As(w, &cw) {
			found = true
			if cw.Iterations != 1 {
				t.Errorf("warning iterations = %d, want 1", cw.Iterations)
			}
		}
	}
	if !found {
		t.Error("exhausted iteration budget emitted no ConvergenceWarning")
	}
	if lr.NIter() != 1 {
		t.Errorf("NIter() = %d, want 1", lr.NIter())
	}
}

func TestCalibratedClassifierProbabilities(t *testing.T) {
	X, y := blobFixture(15)
	clf := NewCalibratedClassifier(func() MarginClassifier {
		return NewLinearSVC()
	})
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	probas, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	rows, _ := X.Dims()
	for i := 0; i < rows; i++ {
		p0, p1 := probas.At(i, 0), probas.At(i, 1)
		if p0 < 0 || p0 > 1 || p1 < 0 || p1 > 1 {
			t.Errorf("row %d probabilities out of range: %v, %v", i, p0, p1)
		}
		if math.Abs(p0+p1-1.0) > 1e-9 {
			t.Errorf("row %d probabilities sum to %v", i, p0+p1)
		}
	}

	predictions, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < rows; i++ {
		if predictions.At(i, 0) != y.At(i, 0) {
			t.Errorf("sample %d predicted %v, want %v", i, predictions.At(i, 0), y.At(i, 0))
		}
	}
}

func TestCalibratedClassifierTooFewSamples(t *testing.T) {
	// Two samples per class cannot fill three folds.
	X := mat.NewDense(4, 2, []float64{-1, -1, -1.1, -0.9, 1, 1, 1.1, 0.9})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	clf := NewCalibratedClassifier(func() MarginClassifier {
		return NewLinearSVC()
	}, WithCalibrationCV(3))
	if err := clf.Fit(X, y); err == nil {
		t.Fatal("Fit() with too few samples per fold succeeded, want error")
	}
}

func TestCalibratedClassifierPredictBeforeFit(t *testing.T) {
	clf := NewCalibratedClassifier(func() MarginClassifier {
		return NewLinearSVC()
	})
	if _, err := clf.PredictProba(mat.NewDense(1, 2, nil)); err == nil {
		t.Fatal("PredictProba() before fit succeeded, want error")
	}
}

func TestFactoryPairings(t *testing.T) {
	tests := []struct {
		name      string
		family    Family
		strategy  feature.Strategy
		wantProba bool
	}{
		{"NB with sparse counts", FamilyNaiveBayes, feature.StrategyTFIDF, true},
		{"NB with dense embeddings", FamilyNaiveBayes, feature.StrategyEmbeddings, true},
		{"SVM is calibrated", FamilySVM, feature.StrategyTFIDF, true},
		{"Logistic regression", FamilyLogisticRegression, feature.StrategyEmbeddings, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf, err := Create(tt.family, tt.strategy)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			_, hasProba := clf.(interface {
				PredictProba(X mat.Matrix) (mat.Matrix, error)
			})
			if hasProba != tt.wantProba {
				t.Errorf("probability support = %v, want %v", hasProba, tt.wantProba)
			}
		})
	}
}

func TestFactoryUnknownFamily(t *testing.T) {
	if _, err := Create(Family("random_forest"), feature.StrategyTFIDF); err == nil {
		t.Fatal("Create() with unknown family succeeded, want error")
	}
}
