// Package main is the command-line entry point of the alternance search automation.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "alternance",
	Short: "Alternance offer search and classification",
	Long: "Searches the alternance portal, separates real job offers from training programmes " +
		"advertised as offers, and optionally applies to the job offers.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config YAML (default configs/config.yaml or $ALTERNANCE_CONFIG)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
