package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/cookbook/internal/api"
	"github.com/jackzampolin/cookbook/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "cookbook",
	Short: "Turn recipe archives into chaptered cookbook PDFs",
	Long: `Cookbook converts recipe manager export archives into printable,
chaptered cookbook PDFs.

The pipeline includes:
  - Recipe extraction from zip archives of gzipped JSON exports
  - Image normalization for print-friendly output
  - Category-based chapter assembly with a linked table of contents
  - PDF rendering through a headless browser`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.cookbook/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "cookbook home directory (default: ~/.cookbook)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
