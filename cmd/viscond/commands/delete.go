package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a rule set",
	Long: `Delete a rule set by ID. Requires confirmation unless --force is given.

Examples:
  viscond delete 4f9c0fb6-9a1e-4c57-8a42-1f2f3ab4cd56
  viscond delete 4f9c0fb6-9a1e-4c57-8a42-1f2f3ab4cd56 --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid rule set ID: %w", err)
		}

		if !deleteForce {
			fmt.Printf("Delete rule set %s? (y/N): ", id)
			var answer string
			_, _ = fmt.Scanln(&answer)
			if answer != "y" && answer != "Y" {
				fmt.Println("Aborted")
				return nil
			}
		}

		c, err := newAPIClient()
		if err != nil {
			return err
		}

		if err := c.DeleteRuleSet(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete rule set: %w", err)
		}

		if !quiet {
			fmt.Printf("Deleted rule set %s\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip confirmation prompt")
}
