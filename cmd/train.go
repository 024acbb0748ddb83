package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/cybershield/pipeline"
)

var trainCmd = &cobra.Command{
	Use:   "train [model_key...]",
	Short: "Train and evaluate model configurations",
	Long: "Train trains the named configurations (all six when none are given) " +
		"on the configured corpus and reports their metrics. Valid keys: " +
		"tfidf_naive_bayes, tfidf_svm, tfidf_logistic_regression, " +
		"w2v_naive_bayes, w2v_svm, w2v_logistic_regression.",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := pipeline.AllKeys()
		if len(args) > 0 {
			keys = keys[:0]
			for _, raw := range args {
				key, err := pipeline.ParseModelKey(raw)
				if err != nil {
					return err
				}
				keys = append(keys, key)
			}
		}

		corpus, err := trainingCorpus()
		if err != nil {
			return err
		}
		train, test, err := corpus.Split(cfg.TestFraction, cfg.RandomSeed)
		if err != nil {
			return err
		}

		engine := pipeline.NewEngine(pipeline.NewCache(), pipeline.WithDatasetID(corpus.ID))
		results := make([]*pipeline.Result, 0, len(keys))
		for _, key := range keys {
			result, err := engine.TrainAndEvaluate(key, train.Texts, test.Texts, train.Labels, test.Labels)
			if err != nil {
				return err
			}
			results = append(results, result)
		}

		if jsonOut {
			return printJSON(results)
		}
		renderResults(results)
		return nil
	},
}

func renderResults(results []*pipeline.Result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Model", "Accuracy", "Precision", "Recall", "F1", "Confidence", "Train (s)", "Total (s)"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range results {
		confidence := "n/a"
		if r.AvgConfidence != nil {
			confidence = fmt.Sprintf("%.4f", *r.AvgConfidence)
		}
		table.Append([]string{
			r.DisplayName,
			fmt.Sprintf("%.4f", r.Metrics.Accuracy),
			fmt.Sprintf("%.4f", r.Metrics.Precision),
			fmt.Sprintf("%.4f", r.Metrics.Recall),
			fmt.Sprintf("%.4f", r.Metrics.F1),
			confidence,
			fmt.Sprintf("%.3f", r.Timing.TrainingSec),
			fmt.Sprintf("%.3f", r.Timing.TotalSec),
		})
	}
	table.Render()
}
