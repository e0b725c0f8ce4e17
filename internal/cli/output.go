package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/TimurManjosov/govisibility/internal/client"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// PrintRuleSets outputs rule sets in the specified format
func PrintRuleSets(ruleSets []client.RuleSet, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(ruleSets)
	case FormatYAML:
		return printYAML(ruleSets)
	case FormatTable:
		return printRuleSetTable(ruleSets)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintRuleSet outputs a single rule set in the specified format
func PrintRuleSet(rs *client.RuleSet, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(rs)
	case FormatYAML:
		return printYAML(rs)
	case FormatTable:
		return printRuleSetTable([]client.RuleSet{*rs})
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintTypes outputs the registered condition categories
func PrintTypes(types []client.TypeInfo, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(types)
	case FormatYAML:
		return printYAML(types)
	case FormatTable:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Key", "Label", "Priority", "Operators")
		for _, ti := range types {
			table.Append(ti.Key, ti.Label, fmt.Sprintf("%d", ti.Priority), strings.Join(ti.Operators, ", "))
		}
		return table.Render()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintRules outputs the rules of one category
func PrintRules(rules []client.RuleInfo, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(rules)
	case FormatYAML:
		return printYAML(rules)
	case FormatTable:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Rule", "Value Type", "Needs Value", "Multi", "Operators")
		for _, r := range rules {
			table.Append(
				r.Rule,
				r.ValueType,
				fmt.Sprintf("%t", r.NeedsValue),
				fmt.Sprintf("%t", r.SupportsMulti),
				strings.Join(r.Operators, ", "),
			)
		}
		return table.Render()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printRuleSetTable(ruleSets []client.RuleSet) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Title", "Status", "Groups", "Updated At")

	for _, rs := range ruleSets {
		title := rs.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		table.Append(
			rs.ID.String(),
			title,
			rs.Status,
			fmt.Sprintf("%d", len(rs.Set.Groups)),
			rs.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}

	return table.Render()
}
