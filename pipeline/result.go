package pipeline

import (
	"encoding/json"
	"math"
)

// round truncates v to the given number of decimal places, half away from
// zero.
func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// roundPtr rounds through an optional value, preserving absence.
func roundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	r := round(*v, places)
	return &r
}

// Metrics holds the quality scores of one evaluation. Values are stored at
// full precision; rounding to four decimal places happens only at the JSON
// boundary, so ranking always compares raw numbers.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
}

// MarshalJSON rounds every score to four decimal places.
func (m Metrics) MarshalJSON() ([]byte, error) {
	type alias Metrics
	return json.Marshal(alias{
		Accuracy:  round(m.Accuracy, 4),
		Precision: round(m.Precision, 4),
		Recall:    round(m.Recall, 4),
		F1:        round(m.F1, 4),
	})
}

// Timing holds per-stage wall-clock durations in seconds.
type Timing struct {
	FeatureExtractionSec float64 `json:"feature_extraction_sec"`
	TrainingSec          float64 `json:"training_sec"`
	PredictionSec        float64 `json:"prediction_sec"`
	TotalSec             float64 `json:"total_sec"`
}

// MarshalJSON rounds every duration to three decimal places.
func (t Timing) MarshalJSON() ([]byte, error) {
	type alias Timing
	return json.Marshal(alias{
		FeatureExtractionSec: round(t.FeatureExtractionSec, 3),
		TrainingSec:          round(t.TrainingSec, 3),
		PredictionSec:        round(t.PredictionSec, 3),
		TotalSec:             round(t.TotalSec, 3),
	})
}

// Result is the evaluation bundle for one trained configuration.
//
// AvgConfidence is the dataset-level mean of the per-sample winning-class
// probabilities over the test split. It is nil when the classifier exposes
// no probability estimate; that absence is reported, never substituted with
// a placeholder number.
type Result struct {
	ModelKey      ModelKey `json:"model_key"`
	DisplayName   string   `json:"display_name"`
	Description   string   `json:"description"`
	FeatureMethod string   `json:"feature_method"`
	Classifier    string   `json:"classifier"`
	DatasetID     string   `json:"dataset_id,omitempty"`

	Metrics Metrics `json:"metrics"`
	Timing  Timing  `json:"timing"`

	ConfusionMatrix [2][2]int `json:"confusion_matrix"`
	AvgConfidence   *float64  `json:"avg_confidence"`

	TrainSamples int `json:"train_samples"`
	TestSamples  int `json:"test_samples"`
}

// MarshalJSON rounds the average confidence to four decimal places; nested
// Metrics and Timing round themselves.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	a := alias(r)
	a.AvgConfidence = roundPtr(r.AvgConfidence, 4)
	return json.Marshal(a)
}

// Label texts for the two classes.
const (
	LabelPositive = "Cyberbullying"
	LabelNegative = "Not Cyberbullying"
)

// DisplayLabel maps a numeric class to its report text.
func DisplayLabel(label int) string {
	if label == 1 {
		return LabelPositive
	}
	return LabelNegative
}

// Prediction is the outcome of classifying one text with one trained
// configuration. Confidence is nil when the classifier has no probability
// estimate.
type Prediction struct {
	ModelKey    ModelKey `json:"model_key"`
	DisplayName string   `json:"display_name"`
	Text        string   `json:"text"`

	Label        int      `json:"label"`
	DisplayLabel string   `json:"display_label"`
	Confidence   *float64 `json:"confidence"`
	LatencySec   float64  `json:"latency_sec"`
}

// MarshalJSON rounds confidence to four and latency to six decimal places;
// single-prediction latency is usually sub-millisecond, so it keeps extra
// digits.
func (p Prediction) MarshalJSON() ([]byte, error) {
	type alias Prediction
	a := alias(p)
	a.Confidence = roundPtr(p.Confidence, 4)
	a.LatencySec = round(p.LatencySec, 6)
	return json.Marshal(a)
}

// Outcome is one per-configuration entry of a predict-all sweep. Exactly
// one of Prediction and Err is meaningful: a failed configuration reports
// its error in place instead of silently dropping out of the result set.
type Outcome struct {
	Key        ModelKey    `json:"model_key"`
	Prediction *Prediction `json:"prediction,omitempty"`
	Err        error       `json:"-"`
}

// MarshalJSON renders the error, if any, as its message.
func (o Outcome) MarshalJSON() ([]byte, error) {
	type alias Outcome
	a := struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias: alias(o)}
	if o.Err != nil {
		a.Error = o.Err.Error()
	}
	return json.Marshal(a)
}
