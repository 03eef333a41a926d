package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Bronc-X/antianxiety/internal/config"
	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/service"
)

var stabilityCmd = &cobra.Command{
	Use:   "stability",
	Short: "Classify daily check-in stability",
	Long: `Evaluate a window of daily check-ins and recommend the check-in
cadence. The daily index is recomputed from each entry's components.`,
	Example: `  calmctl stability --file responses.yaml --streak 2
  calmctl stability --file responses.yaml --policy policy.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		policyPath, _ := cmd.Flags().GetString("policy")
		streak, _ := cmd.Flags().GetInt("streak")
		asJSON, _ := cmd.Flags().GetBool("json")

		policy, err := config.LoadStabilityPolicy(policyPath)
		if err != nil {
			return err
		}

		var responses []domain.DailyResponse
		if err := readList(path, &responses); err != nil {
			return err
		}
		for i := range responses {
			r := &responses[i]
			r.DailyIndex = service.DailyIndex(r.GAD2Score, r.StressLevel, r.SleepQuality, r.SleepDuration)
		}

		result := service.EvaluateDailyStability(responses, streak, policy)

		w := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed, color.Bold).SprintFunc()

		state := red("unstable")
		if result.IsStable {
			state = green("stable")
		}
		fmt.Fprintf(w, "Status:          %s\n", state)
		fmt.Fprintf(w, "Completion:      %.0f%%\n", result.CompletionRate*100)
		fmt.Fprintf(w, "Average index:   %.2f (max %d)\n", result.AverageScore, result.MaxSingleDay)
		fmt.Fprintf(w, "Slope:           %+.2f/day\n", result.Slope)
		fmt.Fprintf(w, "Stable streak:   %d\n", result.ConsecutiveStableDays)
		fmt.Fprintf(w, "Recommendation:  %s\n", result.Recommendation)
		for _, reason := range result.RedFlagReasons {
			fmt.Fprintf(w, "  %s %s\n", red("!"), reason)
		}
		return nil
	},
}

func init() {
	stabilityCmd.Flags().StringP("file", "f", "", "YAML or JSON list of daily responses")
	stabilityCmd.Flags().String("policy", "", "YAML file overriding stability thresholds")
	stabilityCmd.Flags().Int("streak", 0, "consecutive stable days before this window")
	stabilityCmd.Flags().Bool("json", false, "print JSON instead of text")
	_ = stabilityCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(stabilityCmd)
}
