// Package main provides the entry point for the CSRD report analyzer.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "csrd_agent",
	Short: "CSRD/ESRS sustainability report analyzer",
	Long:  "csrd_agent evaluates a sustainability report (CSRD/DPEF) against the ESRS framework through a completion service, producing a weighted compliance score with per-section findings and recommendations.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
