package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWithF1(key ModelKey, f1 float64) *Result {
	return &Result{ModelKey: key, Metrics: Metrics{F1: f1}}
}

func TestRankingOrder(t *testing.T) {
	r := NewRanking()
	r.Record(resultWithF1(KeyTfidfNaiveBayes, 0.72))
	r.Record(resultWithF1(KeyTfidfSVM, 0.91))
	r.Record(resultWithF1(KeyW2VLogistic, 0.85))

	ranked := r.All()
	require.Len(t, ranked, 3)
	assert.Equal(t, KeyTfidfSVM, ranked[0].ModelKey)
	assert.Equal(t, KeyW2VLogistic, ranked[1].ModelKey)
	assert.Equal(t, KeyTfidfNaiveBayes, ranked[2].ModelKey)
	assert.Equal(t, KeyTfidfSVM, r.Best().ModelKey)
}

func TestRankingComparesRawScores(t *testing.T) {
	// These two would collide after rounding to four decimal places; the
	// ranking must still separate them.
	r := NewRanking()
	r.Record(resultWithF1(KeyTfidfSVM, 0.90001))
	r.Record(resultWithF1(KeyTfidfLogistic, 0.900012))

	assert.Equal(t, KeyTfidfLogistic, r.Best().ModelKey)
}

func TestRankingTiesKeepInsertionOrder(t *testing.T) {
	r := NewRanking()
	r.Record(resultWithF1(KeyW2VSVM, 0.8))
	r.Record(resultWithF1(KeyTfidfSVM, 0.8))

	ranked := r.All()
	assert.Equal(t, KeyW2VSVM, ranked[0].ModelKey)
	assert.Equal(t, KeyTfidfSVM, ranked[1].ModelKey)
}

func TestRankingReplacement(t *testing.T) {
	r := NewRanking()
	r.Record(resultWithF1(KeyTfidfSVM, 0.9))
	r.Record(resultWithF1(KeyTfidfNaiveBayes, 0.7))

	// Retraining the leader with a worse score demotes it.
	r.Record(resultWithF1(KeyTfidfSVM, 0.5))

	ranked := r.All()
	require.Len(t, ranked, 2)
	assert.Equal(t, KeyTfidfNaiveBayes, ranked[0].ModelKey)
	assert.Equal(t, KeyTfidfSVM, ranked[1].ModelKey)
}

func TestRankingEmpty(t *testing.T) {
	r := NewRanking()
	assert.Nil(t, r.Best())
	assert.Empty(t, r.All())
}

func TestParseModelKey(t *testing.T) {
	for _, key := range AllKeys() {
		parsed, err := ParseModelKey(string(key))
		require.NoError(t, err)
		assert.Equal(t, key, parsed)
	}

	_, err := ParseModelKey("tfidf_random_forest")
	assert.Error(t, err)
}

func TestConfigsTrainedStatus(t *testing.T) {
	cache := trainedCache(t, KeyTfidfNaiveBayes)

	statuses := Configs(cache)
	require.Len(t, statuses, 6)
	for _, s := range statuses {
		want := s.Key == KeyTfidfNaiveBayes
		assert.Equal(t, want, s.IsTrained, "key %s", s.Key)
	}
}

func TestResultJSONRounding(t *testing.T) {
	confidence := 0.876543
	r := Result{
		ModelKey:      KeyTfidfSVM,
		Metrics:       Metrics{Accuracy: 0.912345, Precision: 0.898765, Recall: 0.87, F1: 0.884321},
		Timing:        Timing{TrainingSec: 1.23456, TotalSec: 2.34567},
		AvgConfidence: &confidence,
	}

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	metrics := decoded["metrics"].(map[string]any)
	assert.Equal(t, 0.9123, metrics["accuracy"])
	assert.Equal(t, 0.8988, metrics["precision"])

	timing := decoded["timing"].(map[string]any)
	assert.Equal(t, 1.235, timing["training_sec"])

	assert.Equal(t, 0.8765, decoded["avg_confidence"])

	// Rounding is presentation only; the stored value keeps full precision.
	assert.Equal(t, 0.876543, *r.AvgConfidence)
}

func TestResultJSONNullConfidence(t *testing.T) {
	raw, err := json.Marshal(Result{ModelKey: KeyTfidfSVM})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	value, present := decoded["avg_confidence"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestPredictionJSONLatencyPrecision(t *testing.T) {
	p := Prediction{ModelKey: KeyTfidfSVM, LatencySec: 0.0001234567}
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 0.000123, decoded["latency_sec"])
}
