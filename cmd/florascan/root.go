package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"florascan/internal/api"
	"florascan/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "florascan",
	Short: "Plant identification service backed by vision LLMs",
	Long: `Florascan identifies plants from photographs using vision models with
automatic retry and model fallback.

The pipeline includes:
  - Image validation (type allow-list, size ceiling)
  - Multi-model inference with exponential backoff and failover
  - JSON repair for malformed model output
  - Schema validation with total defaulting
  - Stock photo enrichment with placeholder degradation`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.florascan/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// Pick up GEMINI_API_KEY / PEXELS_API_KEY from a local .env
		_ = godotenv.Load()
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
