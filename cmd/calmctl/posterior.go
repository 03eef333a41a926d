package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Bronc-X/antianxiety/internal/service"
)

var posteriorCmd = &cobra.Command{
	Use:   "posterior",
	Short: "Compute a belief posterior",
	Long: `Compute posterior = prior × likelihood / evidence with the same clamping
the reframing ritual applies.`,
	Example: `  calmctl posterior --prior 75 --likelihood 0.4 --evidence 0.8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prior, _ := cmd.Flags().GetFloat64("prior")
		likelihood, _ := cmd.Flags().GetFloat64("likelihood")
		evidence, _ := cmd.Flags().GetFloat64("evidence")
		asJSON, _ := cmd.Flags().GetBool("json")

		out := service.CalculateBelief(service.BeliefParams{
			Prior:      prior,
			Likelihood: &likelihood,
			Evidence:   &evidence,
		})

		w := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		bold := color.New(color.Bold).SprintFunc()
		for _, s := range out.Steps {
			fmt.Fprintf(w, "  %d. %-40s %.2f\n", s.Step, s.Description, s.Value)
		}
		fmt.Fprintln(w)

		c := color.New(color.FgGreen, color.Bold)
		if out.Posterior >= out.Prior {
			c = color.New(color.FgYellow, color.Bold)
		}
		fmt.Fprintf(w, "%s %d%% → %s\n", bold("Belief:"), out.Prior, c.Sprintf("%d%%", out.Posterior))
		if out.ExaggerationFactor != nil {
			fmt.Fprintf(w, "%s %.1f×\n", bold("Exaggeration:"), *out.ExaggerationFactor)
		}
		return nil
	},
}

func init() {
	posteriorCmd.Flags().Float64("prior", 50, "prior belief, 0-100")
	posteriorCmd.Flags().Float64("likelihood", service.DefaultLikelihood, "likelihood, 0-1")
	posteriorCmd.Flags().Float64("evidence", service.DefaultEvidenceWeight, "evidence weight, 0-1")
	posteriorCmd.Flags().Bool("json", false, "print JSON instead of text")
	rootCmd.AddCommand(posteriorCmd)
}
