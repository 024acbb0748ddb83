package errors

import (
	"strings"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("TfidfVectorizer", "Transform")

	var notFitted *NotFittedError
	if !As(err, &notFitted) {
		t.Fatalf("As() failed for %v", err)
	}
	if notFitted.ModelName != "TfidfVectorizer" || notFitted.Method != "Transform" {
		t.Errorf("unexpected fields: %+v", notFitted)
	}
	if !strings.Contains(err.Error(), "not fitted") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestEvaluationErrorUnwrap(t *testing.T) {
	cause := NewValueError("TfidfVectorizer.FitTransform", "empty corpus")
	err := NewEvaluationError("tfidf_svm", "extracting_features", cause)

	var evalErr *EvaluationError
	if !As(err, &evalErr) {
		t.Fatalf("As() failed for %v", err)
	}
	if evalErr.ModelKey != "tfidf_svm" || evalErr.Stage != "extracting_features" {
		t.Errorf("unexpected fields: %+v", evalErr)
	}

	// The cause stays reachable through the chain.
	var valueErr *ValueError
	if !As(err, &valueErr) {
		t.Error("cause not reachable through Unwrap")
	}
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := NewConfigurationError("model_key", "bert_large")
	if !strings.Contains(err.Error(), "model_key") || !strings.Contains(err.Error(), "bert_large") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestNotTrainedError(t *testing.T) {
	err := NewNotTrainedError("w2v_svm")
	var notTrained *NotTrainedError
	if !As(err, &notTrained) {
		t.Fatalf("As() failed for %v", err)
	}
	if notTrained.ModelKey != "w2v_svm" {
		t.Errorf("ModelKey = %q", notTrained.ModelKey)
	}
}

func TestWarnRouting(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(error) {})

	Warn(NewConvergenceWarning("LogisticRegression", 1000, ""))
	Warn(NewUndefinedMetricWarning("precision", "no predicted positives", 0))

	if len(got) != 2 {
		t.Fatalf("handler saw %d warnings, want 2", len(got))
	}
	var cw *ConvergenceWarning
	if !As(got[0], &cw) || cw.Iterations != 1000 {
		t.Errorf("first warning = %v", got[0])
	}
	var uw *UndefinedMetricWarning
	if !As(got[1], &uw) || uw.Metric != "precision" {
		t.Errorf("second warning = %v", got[1])
	}
}

func TestSafeExecuteRecoversPanic(t *testing.T) {
	err := SafeExecute("training", func() error {
		panic("index out of range")
	})
	if err == nil {
		t.Fatal("SafeExecute() swallowed the panic")
	}
	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("error = %v, want PanicError", err)
	}
	if !strings.Contains(err.Error(), "training") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestSafeExecutePassesThroughError(t *testing.T) {
	want := NewValueError("op", "boom")
	err := SafeExecute("op", func() error { return want })
	if !Is(err, want) {
		t.Errorf("error = %v, want %v", err, want)
	}
}

func TestSafeExecuteNilOnSuccess(t *testing.T) {
	if err := SafeExecute("op", func() error { return nil }); err != nil {
		t.Errorf("error = %v, want nil", err)
	}
}
