package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govisibility/internal/cli"
	"github.com/TimurManjosov/govisibility/internal/client"
)

var (
	// Global flags
	baseURL string
	apiKey  string
	profile string
	format  string
	quiet   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "viscond",
	Short: "CLI tool for managing visibility rule sets",
	Long: `Viscond is a command-line tool for managing visibility rule sets in the
govisibility service.

It provides commands for inspecting the registered condition categories,
validating condition documents, managing stored rule sets, and resolving
visibility decisions.

Examples:
  viscond types
  viscond rules user_role
  viscond list --status published
  viscond apply ruleset.json
  viscond eval --id 4f9c0fb6-... --user 12 --roles subscriber`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the visibility API")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for admin operations")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "Server profile from the config file")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
}

// newAPIClient resolves connection settings and builds an API client.
func newAPIClient() (*client.Client, error) {
	pc, _, err := cli.GetProfileConfig(profile, baseURL, apiKey)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return client.NewClient(pc.BaseURL, pc.APIKey), nil
}
