package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/cybershield/dataset"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Show statistics for the configured corpora",
	RunE: func(cmd *cobra.Command, args []string) error {
		corpora, err := loadCorpora()
		if err != nil {
			return err
		}

		stats := lo.Map(corpora, func(d *dataset.Dataset, _ int) dataset.Stats {
			return d.Describe()
		})

		if jsonOut {
			return printJSON(stats)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Dataset", "Samples", "Cyberbullying", "Not Cyberbullying", "Positive %", "Mean Length"})
		table.SetAutoWrapText(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, s := range stats {
			table.Append([]string{
				s.ID,
				fmt.Sprintf("%d", s.Total),
				fmt.Sprintf("%d", s.Positive),
				fmt.Sprintf("%d", s.Negative),
				fmt.Sprintf("%.1f%%", s.PositiveRatio*100),
				fmt.Sprintf("%.1f", s.MeanLength),
			})
		}
		table.Render()
		return nil
	},
}
