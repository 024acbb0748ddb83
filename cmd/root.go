// Package cmd implements the cybershield command line interface.
package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/cybershield/config"
	"github.com/YuminosukeSato/cybershield/dataset"
	"github.com/YuminosukeSato/cybershield/pkg/errors"
	"github.com/YuminosukeSato/cybershield/pkg/log"
)

var (
	cfg       *config.Config
	jsonOut   bool
	datasetID string
)

var rootCmd = &cobra.Command{
	Use:   "cybershield",
	Short: "Cyberbullying detection model comparison",
	Long: "Cybershield trains six text-classification configurations (TF-IDF and " +
		"LSA embeddings crossed with Naive Bayes, SVM and Logistic Regression), " +
		"compares them on a labeled corpus and classifies new texts with the " +
		"trained models.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		log.SetupLogger(cfg.LogLevel)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of tables")
	rootCmd.PersistentFlags().StringVar(&datasetID, "dataset", "", `Corpus to train on: "1", "2" or "combined" (default: the largest available)`)

	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(predictCmd)
}

// loadCorpora reads the configured dataset files. Dataset 2 is optional;
// when both are present a combined corpus is appended.
func loadCorpora() ([]*dataset.Dataset, error) {
	d1, err := dataset.LoadCSV("1", cfg.Dataset1Path, cfg.TextColumn, cfg.LabelColumn)
	if err != nil {
		return nil, err
	}
	corpora := []*dataset.Dataset{d1}

	if cfg.Dataset2Path != "" {
		d2, err := dataset.LoadCSV("2", cfg.Dataset2Path, cfg.TextColumn, cfg.LabelColumn)
		if err != nil {
			return nil, err
		}
		corpora = append(corpora, d2, dataset.Combine("combined", d1, d2))
	}
	return corpora, nil
}

// trainingCorpus returns the corpus models train on: the one selected by
// --dataset, defaulting to the combined corpus when a second dataset is
// configured and dataset 1 otherwise. The result is capped at the
// configured sample limit.
func trainingCorpus() (*dataset.Dataset, error) {
	corpora, err := loadCorpora()
	if err != nil {
		return nil, err
	}

	d := corpora[len(corpora)-1]
	if datasetID != "" {
		d = nil
		for _, c := range corpora {
			if c.ID == datasetID {
				d = c
				break
			}
		}
		if d == nil {
			return nil, errors.NewConfigurationError("dataset", datasetID)
		}
	}
	return d.Subsample(cfg.MaxSamples, cfg.RandomSeed), nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
