// Package cli implements the greenlight command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "greenlight",
	Short: "Verification gate for machine-generated artifacts",
	Long: "Verifies generated SQL, scripts, and natural-language replies before\n" +
		"they reach production: static risk classification, sandboxed dry runs\n" +
		"against disposable state, and tone/safety scoring. Rejected artifacts\n" +
		"must not be executed or sent.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
