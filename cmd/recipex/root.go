package main

import (
	"github.com/spf13/cobra"

	"github.com/LeeChowCA/recipe-extraction/internal/api"
	"github.com/LeeChowCA/recipe-extraction/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "recipex",
	Short: "Recipe text extraction service with LLM-powered structuring",
	Long: `Recipex turns free-form recipe text into structured recipe documents
using LLM-powered extraction.

The pipeline includes:
  - A fixed recipe document schema that doubles as the model instructions
  - Single-call extraction against a configurable completion provider
  - Lenient response parsing with schema-driven normalization
  - PDF ingestion for scanned recipe sheets`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.recipex/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "json", "output format: json or yaml",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
