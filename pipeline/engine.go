package pipeline

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cybershield/classifier"
	"github.com/YuminosukeSato/cybershield/core/model"
	"github.com/YuminosukeSato/cybershield/feature"
	"github.com/YuminosukeSato/cybershield/metrics"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
	"github.com/YuminosukeSato/cybershield/pkg/log"
)

// Pipeline stage names, reported inside EvaluationError and in logs.
const (
	StageExtract = "extracting_features"
	StageTrain   = "training"
	StagePredict = "predicting"
	StageScore   = "scoring"
)

// Engine trains and evaluates configurations against a dataset split and
// publishes the fitted pairs to its Cache. One Engine serves one cache;
// callers that need isolated model sets create separate engines.
type Engine struct {
	cache     *Cache
	datasetID string
}

// EngineOption is a functional option for Engine.
type EngineOption func(*Engine)

// WithDatasetID tags every result the engine produces with a dataset
// identifier.
func WithDatasetID(id string) EngineOption {
	return func(e *Engine) {
		e.datasetID = id
	}
}

// NewEngine creates an Engine publishing trained models to cache.
func NewEngine(cache *Cache, opts ...EngineOption) *Engine {
	e := &Engine{cache: cache}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cache returns the cache the engine publishes to.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// TrainAndEvaluate runs the full measurement for one configuration: fit the
// extractor on the training texts, train the classifier, predict the test
// split, score it, and cache the fitted pair. Stage failures (panics
// included) come back as an EvaluationError naming the key and the stage,
// and nothing is cached: a key is either fully trained or absent.
func (e *Engine) TrainAndEvaluate(key ModelKey, trainTexts, testTexts []string, trainLabels, testLabels []int) (*Result, error) {
	cfg, err := GetConfig(key)
	if err != nil {
		return nil, err
	}
	if len(trainTexts) == 0 {
		return nil, errors.NewEmptyInputError("TrainAndEvaluate")
	}
	if len(trainTexts) != len(trainLabels) {
		return nil, errors.NewDimensionError("TrainAndEvaluate", len(trainTexts), len(trainLabels), 0)
	}
	if len(testTexts) != len(testLabels) {
		return nil, errors.NewDimensionError("TrainAndEvaluate", len(testTexts), len(testLabels), 0)
	}

	logger := slog.Default().With(
		slog.String(log.ModelKeyKey, string(key)),
		slog.String(log.DatasetKey, e.datasetID),
	)

	totalStart := time.Now()

	extractor, err := feature.NewExtractor(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	var trainX, testX mat.Matrix
	extractStart := time.Now()
	err = errors.SafeExecute(StageExtract, func() error {
		var ferr error
		if trainX, ferr = extractor.FitTransform(trainTexts); ferr != nil {
			return ferr
		}
		testX, ferr = extractor.Transform(testTexts)
		return ferr
	})
	if err != nil {
		return nil, errors.NewEvaluationError(string(key), StageExtract, err)
	}
	extractSec := time.Since(extractStart).Seconds()
	_, nFeatures := trainX.Dims()
	logger.Info("features extracted",
		slog.String(log.StageKey, StageExtract),
		slog.Int(log.SamplesKey, len(trainTexts)),
		slog.Int(log.FeaturesKey, nFeatures),
		slog.Float64(log.ElapsedSecKey, extractSec),
	)

	clf, err := classifier.Create(cfg.Family, cfg.Strategy)
	if err != nil {
		return nil, err
	}

	trainStart := time.Now()
	err = errors.SafeExecute(StageTrain, func() error {
		return clf.Fit(trainX, labelsToMatrix(trainLabels))
	})
	if err != nil {
		return nil, errors.NewEvaluationError(string(key), StageTrain, err)
	}
	trainSec := time.Since(trainStart).Seconds()
	logger.Info("classifier trained",
		slog.String(log.StageKey, StageTrain),
		slog.Float64(log.ElapsedSecKey, trainSec),
	)

	var predictions mat.Matrix
	var avgConfidence *float64
	predictStart := time.Now()
	err = errors.SafeExecute(StagePredict, func() error {
		var perr error
		if predictions, perr = clf.Predict(testX); perr != nil {
			return perr
		}
		if estimator, ok := clf.(model.ProbabilityEstimator); ok {
			probas, perr := estimator.PredictProba(testX)
			if perr != nil {
				return perr
			}
			avgConfidence = meanMaxProba(probas)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewEvaluationError(string(key), StagePredict, err)
	}
	predictSec := time.Since(predictStart).Seconds()

	yPred := matrixToLabels(predictions)
	var scored Metrics
	var cm [2][2]int
	err = errors.SafeExecute(StageScore, func() error {
		var serr error
		if scored.Accuracy, serr = metrics.Accuracy(testLabels, yPred); serr != nil {
			return serr
		}
		if scored.Precision, serr = metrics.Precision(testLabels, yPred); serr != nil {
			return serr
		}
		if scored.Recall, serr = metrics.Recall(testLabels, yPred); serr != nil {
			return serr
		}
		if scored.F1, serr = metrics.F1(testLabels, yPred); serr != nil {
			return serr
		}
		cm, serr = metrics.ConfusionMatrix(testLabels, yPred)
		return serr
	})
	if err != nil {
		return nil, errors.NewEvaluationError(string(key), StageScore, err)
	}

	e.cache.Put(key, Entry{Classifier: clf, Strategy: cfg.Strategy, Extractor: extractor})

	totalSec := time.Since(totalStart).Seconds()
	logger.Info("evaluation complete",
		slog.String(log.StageKey, StageScore),
		slog.Float64(log.F1Key, scored.F1),
		slog.Float64(log.ElapsedSecKey, totalSec),
	)

	return &Result{
		ModelKey:      key,
		DisplayName:   cfg.DisplayName,
		Description:   cfg.Description,
		FeatureMethod: cfg.Strategy.DisplayName(),
		Classifier:    cfg.Family.DisplayName(),
		DatasetID:     e.datasetID,
		Metrics:       scored,
		Timing: Timing{
			FeatureExtractionSec: extractSec,
			TrainingSec:          trainSec,
			PredictionSec:        predictSec,
			TotalSec:             totalSec,
		},
		ConfusionMatrix: cm,
		AvgConfidence:   avgConfidence,
		TrainSamples:    len(trainTexts),
		TestSamples:     len(testTexts),
	}, nil
}

// TrainAll evaluates every configuration in canonical order, recording each
// result into ranking. A configuration failure stops the sweep and returns
// the EvaluationError; results recorded so far stay ranked.
func (e *Engine) TrainAll(ranking *Ranking, trainTexts, testTexts []string, trainLabels, testLabels []int) ([]*Result, error) {
	results := make([]*Result, 0, len(configOrder))
	for _, key := range AllKeys() {
		result, err := e.TrainAndEvaluate(key, trainTexts, testTexts, trainLabels, testLabels)
		if err != nil {
			return results, err
		}
		if ranking != nil {
			ranking.Record(result)
		}
		results = append(results, result)
	}
	return results, nil
}

// labelsToMatrix lifts integer labels into the n x 1 matrix the classifier
// interfaces expect.
func labelsToMatrix(labels []int) *mat.Dense {
	data := make([]float64, len(labels))
	for i, l := range labels {
		data[i] = float64(l)
	}
	return mat.NewDense(len(labels), 1, data)
}

// matrixToLabels flattens an n x 1 prediction matrix back to integers.
func matrixToLabels(m mat.Matrix) []int {
	n, _ := m.Dims()
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = int(m.At(i, 0))
	}
	return out
}

// meanMaxProba averages the winning-class probability across rows. Nil on
// an empty matrix so absence stays distinguishable from zero.
func meanMaxProba(probas mat.Matrix) *float64 {
	n, c := probas.Dims()
	if n == 0 || c == 0 {
		return nil
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		best := probas.At(i, 0)
		for j := 1; j < c; j++ {
			if probas.At(i, j) > best {
				best = probas.At(i, j)
			}
		}
		sum += best
	}
	mean := sum / float64(n)
	return &mean
}
