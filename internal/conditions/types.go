// Package conditions implements the visibility condition engine: a typed
// registry of predicate categories, shared value-parsing and comparison
// primitives, and the two-level AND/OR composition that decides whether a
// piece of content is shown to the current visitor.
package conditions

import "strings"

// Logic combines the results of a group's predicates, or of a set's groups.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// ParseLogic normalizes a raw logic string. Unknown input defaults to OR.
func ParseLogic(raw string) Logic {
	if strings.EqualFold(strings.TrimSpace(raw), string(LogicAnd)) {
		return LogicAnd
	}
	return LogicOr
}

// Condition is a single typed predicate. Type selects a registered category,
// Rule a category-specific check, Operator the comparison semantics. Value is
// category- and rule-dependent: a scalar, a list, or a packed "field|value"
// string.
type Condition struct {
	Type     string   `json:"type"`
	Rule     string   `json:"rule"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
}

// ConditionGroup combines predicates with one logic. An empty group
// evaluates to true.
type ConditionGroup struct {
	Logic      Logic       `json:"logic"`
	Conditions []Condition `json:"conditions"`
}

// ConditionSet is the full two-level tree. An empty set (no groups)
// evaluates to true: content is visible by default.
type ConditionSet struct {
	Logic  Logic            `json:"logic"`
	Groups []ConditionGroup `json:"groups"`
}

// Operator names the comparison semantics of a predicate.
type Operator string

// Scalar operators shared across categories.
const (
	OpIs          Operator = "is"
	OpIsNot       Operator = "is_not"
	OpExists      Operator = "exists"
	OpNotExists   Operator = "not_exists"
	OpHasValue    Operator = "has_value"
	OpNoValue     Operator = "no_value"
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpStartsWith  Operator = "starts_with"
	OpEndsWith    Operator = "ends_with"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpBefore      Operator = "before"
	OpAfter       Operator = "after"
	OpOn          Operator = "on"
	OpBetween     Operator = "between"
)

// Multi-value set operators. Only legal for rules whose value is chosen from
// a list (see OperatorsForRule).
const (
	OpIncludesAny Operator = "includes_any"
	OpIncludesAll Operator = "includes_all"
	OpExcludesAny Operator = "excludes_any"
	OpExcludesAll Operator = "excludes_all"
)

// IsMultiValue reports whether op is one of the four set operators.
func (op Operator) IsMultiValue() bool {
	switch op {
	case OpIncludesAny, OpIncludesAll, OpExcludesAny, OpExcludesAll:
		return true
	}
	return false
}

// ValueType describes the shape of a rule's value, and drives which
// operators are legal and which editor control the management UI renders.
type ValueType string

const (
	ValueNone         ValueType = "none"
	ValueText         ValueType = "text"
	ValueNumber       ValueType = "number"
	ValueCustomField  ValueType = "custom_field"
	ValueObject       ValueType = "object_selector"
	ValueObjectTree   ValueType = "hierarchical_object_selector"
	ValueDaySelector  ValueType = "day_selector"
	ValueDateTime     ValueType = "datetime"
	ValueTimeOfDay    ValueType = "time"
)

// RuleMetadata is the per-rule contract the management UI relies on. The
// engine also enforces it defensively at evaluation time.
type RuleMetadata struct {
	NeedsValue    bool      `json:"needsValue"`
	ValueType     ValueType `json:"valueType"`
	SupportsMulti bool      `json:"supportsMulti"`
}

// Descriptor is a registry entry for one category. Priority affects only
// presentation ordering, never evaluation.
type Descriptor struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Operators []Operator `json:"operators"`
	Priority  int        `json:"priority"`
}
