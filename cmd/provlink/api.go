package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/provlink/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running provlink server via HTTP.

These commands require a running server (provlink serve).
Use --server to specify a custom server URL.

Examples:
  provlink api health                              # Check server health
  provlink api sessions create sub-1 w2            # Open a review session
  provlink api sessions select <id> federalWages W-2
  provlink api sessions overlay <id> --svg > page.svg`,
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Review session commands",
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
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand((&endpoints.ConfidenceEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ListSettingsEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerEndpoint{}).Command(getServerURL))

	// Sessions as subcommand group
	for _, ep := range endpoints.SessionCommands() {
		sessionsCmd.AddCommand(ep.Command(getServerURL))
	}

	apiCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(apiCmd)
}
