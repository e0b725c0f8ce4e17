package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/TimurManjosov/govisibility/internal/cli"
	"github.com/TimurManjosov/govisibility/internal/conditions"
	"github.com/TimurManjosov/govisibility/internal/store"
)

type ruleSetFile struct {
	ID     *uuid.UUID              `json:"id,omitempty"`
	Title  string                  `json:"title"`
	Status string                  `json:"status,omitempty"`
	Set    conditions.ConditionSet `json:"set"`
}

var applyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Create or update a rule set from a JSON file",
	Long: `Create or update a rule set from a JSON document. When the document
carries an "id" field the existing rule set is updated in place.

Document shape:
  {
    "title": "Members only banner",
    "status": "published",
    "set": {"logic": "OR", "groups": [...]}
  }

Examples:
  viscond apply ruleset.json
  viscond apply ruleset.json --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var doc ruleSetFile
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse document: %w", err)
		}

		c, err := newAPIClient()
		if err != nil {
			return err
		}

		params := store.UpsertParams{
			Title:  doc.Title,
			Status: store.Status(doc.Status),
			Set:    doc.Set,
		}
		if doc.ID != nil {
			params.ID = *doc.ID
		}

		rs, err := c.UpsertRuleSet(context.Background(), params)
		if err != nil {
			return fmt.Errorf("failed to apply rule set: %w", err)
		}

		if !quiet {
			return cli.PrintRuleSet(rs, cli.OutputFormat(format))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
