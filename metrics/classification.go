// Package metrics implements the binary classification metrics reported by
// the comparison pipeline.
package metrics

import (
	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// validate checks the label slices for equal length, non-emptiness and
// binary values.
func validate(op string, yTrue, yPred []int) error {
	if len(yTrue) == 0 {
		return errors.NewValueError(op, "empty label slice")
	}
	if len(yPred) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	for i := range yTrue {
		if yTrue[i] != 0 && yTrue[i] != 1 {
			return errors.NewValueError(op, "labels must be 0 or 1")
		}
		if yPred[i] != 0 && yPred[i] != 1 {
			return errors.NewValueError(op, "labels must be 0 or 1")
		}
	}
	return nil
}

// counts tallies the four confusion cells for positive class 1.
func counts(yTrue, yPred []int) (tn, fp, fn, tp int) {
	for i := range yTrue {
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			tp++
		case yTrue[i] == 1 && yPred[i] == 0:
			fn++
		case yTrue[i] == 0 && yPred[i] == 1:
			fp++
		default:
			tn++
		}
	}
	return
}

// Accuracy returns the fraction of correctly classified samples.
func Accuracy(yTrue, yPred []int) (float64, error) {
	if err := validate("Accuracy", yTrue, yPred); err != nil {
		return 0, err
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// Precision returns TP / (TP + FP) for positive class 1. When no positive
// predictions exist the metric is ill-defined; it is reported as 0 with an
// UndefinedMetricWarning rather than an error.
func Precision(yTrue, yPred []int) (float64, error) {
	if err := validate("Precision", yTrue, yPred); err != nil {
		return 0, err
	}
	_, fp, _, tp := counts(yTrue, yPred)
	if tp+fp == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0, nil
	}
	return float64(tp) / float64(tp+fp), nil
}

// Recall returns TP / (TP + FN) for positive class 1, reported as 0 with an
// UndefinedMetricWarning when no true positives exist.
func Recall(yTrue, yPred []int) (float64, error) {
	if err := validate("Recall", yTrue, yPred); err != nil {
		return 0, err
	}
	_, _, fn, tp := counts(yTrue, yPred)
	if tp+fn == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true positives", 0))
		return 0, nil
	}
	return float64(tp) / float64(tp+fn), nil
}

// F1 returns the harmonic mean of precision and recall, 0 when both are 0.
func F1(yTrue, yPred []int) (float64, error) {
	if err := validate("F1", yTrue, yPred); err != nil {
		return 0, err
	}
	precision, err := Precision(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	recall, err := Recall(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if precision+recall == 0 {
		return 0, nil
	}
	return 2 * precision * recall / (precision + recall), nil
}

// ConfusionMatrix returns the 2x2 matrix [[TN, FP], [FN, TP]]: rows are the
// true label (0 then 1), columns the predicted label (0 then 1). This
// ordering is fixed; all reporting relies on it.
func ConfusionMatrix(yTrue, yPred []int) ([2][2]int, error) {
	var cm [2][2]int
	if err := validate("ConfusionMatrix", yTrue, yPred); err != nil {
		return cm, err
	}
	tn, fp, fn, tp := counts(yTrue, yPred)
	cm[0][0] = tn
	cm[0][1] = fp
	cm[1][0] = fn
	cm[1][1] = tp
	return cm, nil
}
