package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/cybershield/dataset"
	"github.com/YuminosukeSato/cybershield/notify"
	"github.com/YuminosukeSato/cybershield/pipeline"
)

var (
	predictModel       string
	predictAlert       bool
	alertMinConfidence float64
)

var predictCmd = &cobra.Command{
	Use:   "predict <text>",
	Short: "Classify a text with trained models",
	Long: "Predict trains the requested configuration (or all six) on the " +
		"configured corpus, then classifies the given text. With --alert, a " +
		"positive detection at or above the confidence threshold sends an " +
		"email through the configured SMTP settings.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := dataset.Clean(args[0])

		keys := pipeline.AllKeys()
		if predictModel != "" {
			key, err := pipeline.ParseModelKey(predictModel)
			if err != nil {
				return err
			}
			keys = []pipeline.ModelKey{key}
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
		for _, key := range keys {
			if _, err := engine.TrainAndEvaluate(key, train.Texts, test.Texts, train.Labels, test.Labels); err != nil {
				return err
			}
		}

		outcomes, err := engine.Cache().PredictAll(text)
		if err != nil {
			return err
		}

		if predictAlert {
			sendAlerts(outcomes)
		}

		if jsonOut {
			return printJSON(map[string]any{
				"text":         args[0],
				"cleaned_text": text,
				"results":      outcomes,
			})
		}
		renderOutcomes(outcomes)
		return nil
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictModel, "model", "", "Predict with a single model key instead of all six")
	predictCmd.Flags().BoolVar(&predictAlert, "alert", false, "Send an email alert on a high-confidence detection")
	predictCmd.Flags().Float64Var(&alertMinConfidence, "alert-threshold", 0.8, "Minimum confidence for an alert")
}

// sendAlerts fires one email per positive high-confidence prediction.
// Predictions without a confidence estimate never alert.
func sendAlerts(outcomes []pipeline.Outcome) {
	sender := notify.NewSender(notify.EmailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		To:       cfg.AlertTo,
	})
	for _, o := range outcomes {
		p := o.Prediction
		if p == nil || p.Label != 1 || p.Confidence == nil || *p.Confidence < alertMinConfidence {
			continue
		}
		sender.SendAsync(notify.Alert{
			Text:       p.Text,
			Label:      p.DisplayLabel,
			Confidence: p.Confidence,
			ModelName:  p.DisplayName,
			DetectedAt: time.Now(),
		})
	}
}

func renderOutcomes(outcomes []pipeline.Outcome) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Model", "Prediction", "Confidence", "Latency (s)"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, o := range outcomes {
		if o.Err != nil {
			table.Append([]string{string(o.Key), "error: " + o.Err.Error(), "", ""})
			continue
		}
		p := o.Prediction
		confidence := "n/a"
		if p.Confidence != nil {
			confidence = fmt.Sprintf("%.4f", *p.Confidence)
		}
		table.Append([]string{
			p.DisplayName,
			p.DisplayLabel,
			confidence,
			fmt.Sprintf("%.6f", p.LatencySec),
		})
	}
	table.Render()
}
