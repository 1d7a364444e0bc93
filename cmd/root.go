// Package cmd implements the fieldlens CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"
const logo = "🔍"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "fieldlens",
	Short: logo + " fieldlens — ask less, execute more",
	Long:  logo + " fieldlens — turns tool schemas into minimal question flows",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(simplifyCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(gatewayCmd)
}
