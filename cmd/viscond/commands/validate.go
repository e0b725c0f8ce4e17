package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govisibility/internal/conditions"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a condition document",
	Long: `Validate a condition-set document against the server's registry:
known categories, declared rules, and legal operators.

The file holds either a bare condition set or a full rule-set document
with a "set" field.

Examples:
  viscond validate conditions.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		set, err := parseConditionSet(data)
		if err != nil {
			return err
		}

		c, err := newAPIClient()
		if err != nil {
			return err
		}

		result, err := c.Validate(context.Background(), set)
		if err != nil {
			return err
		}

		if result.Valid {
			if !quiet {
				fmt.Println("Document is valid")
			}
			return nil
		}

		for field, msg := range result.Errors {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
		}
		return fmt.Errorf("document failed validation (%d errors)", len(result.Errors))
	},
}

// parseConditionSet accepts either a bare set or a rule-set document.
func parseConditionSet(data []byte) (conditions.ConditionSet, error) {
	var wrapper struct {
		Set *conditions.ConditionSet `json:"set"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Set != nil {
		return *wrapper.Set, nil
	}

	var set conditions.ConditionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return conditions.ConditionSet{}, fmt.Errorf("failed to parse document: %w", err)
	}
	return set, nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
