package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govisibility/internal/cli"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a rule set by ID",
	Long: `Retrieve a single rule set, including its full condition document.

Examples:
  viscond get 4f9c0fb6-9a1e-4c57-8a42-1f2f3ab4cd56
  viscond get 4f9c0fb6-9a1e-4c57-8a42-1f2f3ab4cd56 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid rule set ID: %w", err)
		}

		c, err := newAPIClient()
		if err != nil {
			return err
		}

		rs, err := c.GetRuleSet(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to get rule set: %w", err)
		}

		if !quiet {
			return cli.PrintRuleSet(rs, cli.OutputFormat(format))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
