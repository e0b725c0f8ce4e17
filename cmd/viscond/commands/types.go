package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govisibility/internal/cli"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List registered condition categories",
	Long: `List the condition categories the server's registry exposes, ordered
by priority.

Examples:
  viscond types
  viscond types --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAPIClient()
		if err != nil {
			return err
		}

		types, err := c.ListTypes(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list types: %w", err)
		}

		if !quiet {
			return cli.PrintTypes(types, cli.OutputFormat(format))
		}
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules <type>",
	Short: "List the rules of one condition category",
	Long: `List the rules of a condition category, with the operators and value
shape each rule accepts.

Examples:
  viscond rules user_role
  viscond rules location --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAPIClient()
		if err != nil {
			return err
		}

		rules, err := c.ListRules(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list rules: %w", err)
		}

		if !quiet {
			return cli.PrintRules(rules, cli.OutputFormat(format))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(rulesCmd)
}
