package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bronc-X/antianxiety/internal/buildconfig"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the calmctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "calmctl %s\n", buildconfig.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
