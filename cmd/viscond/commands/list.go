package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govisibility/internal/cli"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rule sets",
	Long: `List the rule sets stored on the server.

Examples:
  viscond list
  viscond list --status published
  viscond list --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAPIClient()
		if err != nil {
			return err
		}

		ruleSets, err := c.ListRuleSets(context.Background(), listStatus)
		if err != nil {
			return fmt.Errorf("failed to list rule sets: %w", err)
		}

		if !quiet {
			if len(ruleSets) == 0 {
				fmt.Println("No rule sets found")
				return nil
			}
			return cli.PrintRuleSets(ruleSets, cli.OutputFormat(format))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (published, draft)")
}
