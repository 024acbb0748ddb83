package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/cybershield/pipeline"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Train all six configurations and rank them by F1",
	RunE: func(cmd *cobra.Command, args []string) error {
		corpus, err := trainingCorpus()
		if err != nil {
			return err
		}
		train, test, err := corpus.Split(cfg.TestFraction, cfg.RandomSeed)
		if err != nil {
			return err
		}

		engine := pipeline.NewEngine(pipeline.NewCache(), pipeline.WithDatasetID(corpus.ID))
		ranking := pipeline.NewRanking()
		if _, err := engine.TrainAll(ranking, train.Texts, test.Texts, train.Labels, test.Labels); err != nil {
			return err
		}

		ranked := ranking.All()
		if jsonOut {
			return printJSON(map[string]any{
				"dataset_id": corpus.ID,
				"best_model": ranking.Best().ModelKey,
				"results":    ranked,
			})
		}

		renderResults(ranked)
		best := ranking.Best()
		fmt.Printf("\nBest model: %s (F1 %.4f)\n", best.DisplayName, best.Metrics.F1)
		return nil
	},
}
