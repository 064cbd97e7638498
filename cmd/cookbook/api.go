package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/cookbook/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Cookbook server via HTTP.

These commands require a running server (cookbook serve).
Use --server to specify a custom server URL.

Examples:
  cookbook api health              # Check server health
  cookbook api jobs status <id>    # Poll a job
  cookbook api jobs result <id>    # Download a finished cookbook`,
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Cookbook job commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Jobs as subcommand group
	jobsCmd.AddCommand((&endpoints.JobStatusEndpoint{}).Command(getServerURL))
	jobsCmd.AddCommand((&endpoints.JobResultEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(apiCmd)
}
