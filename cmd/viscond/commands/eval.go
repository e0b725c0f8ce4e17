package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govisibility/internal/client"
	"github.com/TimurManjosov/govisibility/internal/conditions"
)

var (
	evalID      string
	evalSetFile string
	evalItem    int64
	evalUser    int64
	evalRoles   []string
	evalInvert  bool
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a visibility decision",
	Long: `Evaluate a visibility decision against a published rule set or an
inline condition document. Exactly one of --id and --set-file must be given.

Examples:
  viscond eval --id 4f9c0fb6-9a1e-4c57-8a42-1f2f3ab4cd56 --user 7 --roles editor
  viscond eval --set-file conditions.json --item 42
  viscond eval --set-file conditions.json --invert`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (evalID == "") == (evalSetFile == "") {
			return fmt.Errorf("exactly one of --id and --set-file must be given")
		}

		var id *uuid.UUID
		if evalID != "" {
			parsed, err := uuid.Parse(evalID)
			if err != nil {
				return fmt.Errorf("invalid rule set ID: %w", err)
			}
			id = &parsed
		}

		var set *conditions.ConditionSet
		if evalSetFile != "" {
			data, err := os.ReadFile(evalSetFile)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			parsed, err := parseConditionSet(data)
			if err != nil {
				return err
			}
			set = &parsed
		}

		ectx := client.EvalContext{ItemID: evalItem}
		if evalUser != 0 || len(evalRoles) > 0 {
			ectx.User = &conditions.UserRef{ID: evalUser, Roles: evalRoles}
		}

		c, err := newAPIClient()
		if err != nil {
			return err
		}

		result, err := c.Evaluate(context.Background(), id, set, ectx, evalInvert)
		if err != nil {
			return err
		}

		if quiet {
			if !result.Visible {
				os.Exit(1)
			}
			return nil
		}

		if result.Visible {
			fmt.Println("visible")
		} else {
			fmt.Println("hidden")
		}
		if result.ETag != "" {
			fmt.Printf("etag: %s\n", result.ETag)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&evalID, "id", "", "Published rule set ID to evaluate")
	evalCmd.Flags().StringVar(&evalSetFile, "set-file", "", "JSON file with an inline condition document")
	evalCmd.Flags().Int64Var(&evalItem, "item", 0, "Explicit content item ID")
	evalCmd.Flags().Int64Var(&evalUser, "user", 0, "Acting user ID (0 means anonymous)")
	evalCmd.Flags().StringSliceVar(&evalRoles, "roles", nil, "Acting user roles")
	evalCmd.Flags().BoolVar(&evalInvert, "invert", false, "Invert the decision after the tree resolves")
}
