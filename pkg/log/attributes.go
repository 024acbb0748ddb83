// Standard attribute keys for pipeline logging. Hierarchical names
// ("model.key", "data.samples") keep log filtering consistent across the
// training engine, the cache and the CLI.

package log

const (
	// ModelKeyKey identifies the model configuration being processed,
	// e.g. "tfidf_naive_bayes".
	ModelKeyKey = "model.key"

	// StageKey names the engine stage: "extracting_features", "training",
	// "predicting", "scoring".
	StageKey = "pipeline.stage"

	// DatasetKey identifies the dataset a split was produced from.
	DatasetKey = "data.dataset"

	// SamplesKey is the number of documents (rows) involved.
	SamplesKey = "data.samples"

	// FeaturesKey is the feature dimensionality after extraction.
	FeaturesKey = "data.features"

	// ElapsedSecKey carries a wall-clock duration in seconds.
	ElapsedSecKey = "elapsed.sec"

	// F1Key carries the F1 score of a finished evaluation.
	F1Key = "metrics.f1"
)
