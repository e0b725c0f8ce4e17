// Package validation provides validation rules for rule-set documents and
// request parameters.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/TimurManjosov/govisibility/internal/conditions"
)

const (
	// MaxTitleLength is the maximum length for rule-set titles
	MaxTitleLength = 200
	// MaxGroups is the maximum number of groups in a condition set
	MaxGroups = 100
	// MaxConditionsPerGroup is the maximum number of conditions in a group
	MaxConditionsPerGroup = 100
)

// ValidationResult holds the result of validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		Valid:  true,
		Errors: make(map[string]string),
	}
}

// AddError adds a field error and marks the result as invalid
func (v *ValidationResult) AddError(field, message string) {
	v.Valid = false
	v.Errors[field] = message
}

// Merge combines another validation result into this one
func (v *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for field, message := range other.Errors {
		v.AddError(field, message)
	}
}

// RuleSetValidationParams contains the parameters for validating a rule set
type RuleSetValidationParams struct {
	Title  string
	Status string
	Set    conditions.ConditionSet
}

// ValidateRuleSet validates all rule-set fields and returns a validation
// result. The registry supplies the known categories and their per-rule
// operator legality.
func ValidateRuleSet(params RuleSetValidationParams, reg *conditions.Registry) *ValidationResult {
	result := NewValidationResult()

	result.Merge(ValidateTitle(params.Title))
	result.Merge(ValidateStatus(params.Status))
	result.Merge(ValidateConditionSet(params.Set, reg))

	return result
}

// ValidateTitle validates a rule-set title
func ValidateTitle(title string) *ValidationResult {
	result := NewValidationResult()
	title = strings.TrimSpace(title)

	if title == "" {
		result.AddError("title", "Title is required")
		return result
	}

	if utf8.RuneCountInString(title) > MaxTitleLength {
		result.AddError("title", "Title must not exceed 200 characters")
		return result
	}

	return result
}

// ValidateStatus validates a publication status
func ValidateStatus(status string) *ValidationResult {
	result := NewValidationResult()

	switch status {
	case "", "published", "draft":
	default:
		result.AddError("status", "Status must be 'published' or 'draft'")
	}

	return result
}

// ValidateConditionSet validates a condition-set document structurally and
// against the registry: every condition must name a registered category, a
// rule that category declares, and an operator legal for that rule.
func ValidateConditionSet(set conditions.ConditionSet, reg *conditions.Registry) *ValidationResult {
	result := NewValidationResult()

	if len(set.Groups) > MaxGroups {
		result.AddError("groups", fmt.Sprintf("Condition set must not exceed %d groups", MaxGroups))
		return result
	}

	for gi, group := range set.Groups {
		if len(group.Conditions) > MaxConditionsPerGroup {
			result.AddError(fmt.Sprintf("groups[%d]", gi),
				fmt.Sprintf("Group must not exceed %d conditions", MaxConditionsPerGroup))
			continue
		}
		for ci, cond := range group.Conditions {
			field := fmt.Sprintf("groups[%d].conditions[%d]", gi, ci)
			result.Merge(validateCondition(field, cond, reg))
		}
	}

	return result
}

func validateCondition(field string, cond conditions.Condition, reg *conditions.Registry) *ValidationResult {
	result := NewValidationResult()

	if strings.TrimSpace(cond.Type) == "" {
		result.AddError(field+".type", "Condition type is required")
		return result
	}
	ev, ok := reg.Instance(cond.Type)
	if !ok {
		result.AddError(field+".type", "Unknown condition type: "+cond.Type)
		return result
	}

	if strings.TrimSpace(cond.Rule) == "" {
		result.AddError(field+".rule", "Condition rule is required")
		return result
	}
	if !ruleDeclared(ev, cond.Rule) {
		result.AddError(field+".rule", "Unknown rule for type "+cond.Type+": "+cond.Rule)
		return result
	}

	if cond.Operator == "" {
		result.AddError(field+".operator", "Condition operator is required")
		return result
	}
	if !operatorLegal(ev, cond.Rule, cond.Operator) {
		result.AddError(field+".operator",
			"Operator '"+string(cond.Operator)+"' is not legal for rule "+cond.Rule)
		return result
	}

	meta := ev.RuleMetadata(cond.Rule)
	if meta.NeedsValue && operatorNeedsValue(cond.Operator) && isEmptyValue(cond.Value) {
		result.AddError(field+".value", "Rule "+cond.Rule+" requires a value")
	}

	return result
}

// operatorNeedsValue reports whether an operator compares against a
// user-supplied value at all. Presence checks do not.
func operatorNeedsValue(op conditions.Operator) bool {
	switch op {
	case conditions.OpExists, conditions.OpNotExists,
		conditions.OpHasValue, conditions.OpNoValue:
		return false
	}
	return true
}

func ruleDeclared(ev conditions.Evaluator, rule string) bool {
	for _, r := range ev.Rules() {
		if r == rule {
			return true
		}
	}
	return false
}

func operatorLegal(ev conditions.Evaluator, rule string, op conditions.Operator) bool {
	for _, legal := range ev.OperatorsForRule(rule) {
		if legal == op {
			return true
		}
	}
	return false
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}
