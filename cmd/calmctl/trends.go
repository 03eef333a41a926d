package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/service"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Analyze trends in a file of daily logs",
	Example: `  calmctl trends --file logs.yaml
  calmctl trends --file logs.json --confidence`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		withConfidence, _ := cmd.Flags().GetBool("confidence")
		asJSON, _ := cmd.Flags().GetBool("json")

		logs, err := loadLogs(path)
		if err != nil {
			return err
		}

		analysis := service.AnalyzeHealthTrends(logs)
		var weeks []domain.WeeklyConfidence
		if withConfidence {
			weeks = service.WeeklyBayesianConfidence(logs)
		}

		w := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"trends": analysis, "confidence": weeks})
		}

		printTrend(w, "Primary", analysis.Primary)
		if analysis.Secondary != nil {
			printTrend(w, "Secondary", *analysis.Secondary)
		}
		if !analysis.HasEnoughData {
			fmt.Fprintf(w, "\n%d log(s) so far\n", analysis.DataPoints)
		}

		if len(weeks) > 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(w, "\n%s\n", yellow("Weekly confidence:"))
			for _, wk := range weeks {
				fmt.Fprintf(w, "  %s  %3.0f%%  %-9s  %d day(s)\n",
					wk.Week, wk.Confidence.Overall*100, wk.Confidence.ReliabilityLevel, wk.Confidence.SampleSize)
			}
		}
		return nil
	},
}

func printTrend(w io.Writer, label string, t domain.HealthTrend) {
	c := color.New(color.FgWhite)
	switch t.Direction {
	case domain.DirectionImproving:
		c = color.New(color.FgGreen)
	case domain.DirectionDeclining:
		c = color.New(color.FgRed)
	}
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s (%s, %s confidence)\n", cyan(label+":"), t.Description, c.Sprint(t.Direction), t.Confidence)
	fmt.Fprintf(w, "  %s\n", t.Insight)
}

func init() {
	trendsCmd.Flags().StringP("file", "f", "", "YAML or JSON list of daily logs")
	trendsCmd.Flags().Bool("confidence", false, "also print weekly Bayesian confidence")
	trendsCmd.Flags().Bool("json", false, "print JSON instead of text")
	_ = trendsCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(trendsCmd)
}
