package conditions

import "strconv"

// Author category: who wrote the current item, plus key-value checks
// against the author's attached records. On author archives with no item,
// the archived author from the ambient query state is used.
const (
	RuleAuthor      = "general:author"
	RuleAuthorField = "author_field"
)

type authorEvaluator struct {
	baseEvaluator
}

func newAuthorEvaluator() Evaluator {
	declared := append([]Operator{
		OpIs, OpIsNot,
		OpIncludesAny, OpIncludesAll, OpExcludesAny, OpExcludesAll,
	}, keyValueOperators...)
	return &authorEvaluator{baseEvaluator{
		declared: declared,
		rules:    []string{RuleAuthor, RuleAuthorField},
		meta: map[string]RuleMetadata{
			RuleAuthor:      {NeedsValue: true, ValueType: ValueObject, SupportsMulti: true},
			RuleAuthorField: {NeedsValue: true, ValueType: ValueCustomField},
		},
	}}
}

// OperatorsForRule splits the declared set per rule: membership operators
// for the author selector, key-value operators for author field checks.
func (a *authorEvaluator) OperatorsForRule(rule string) []Operator {
	switch rule {
	case RuleAuthor:
		return []Operator{
			OpIs, OpIsNot,
			OpIncludesAny, OpIncludesAll, OpExcludesAny, OpExcludesAll,
		}
	case RuleAuthorField:
		return append([]Operator(nil), keyValueOperators...)
	default:
		return nil
	}
}

func (a *authorEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if !operatorAllowed(a, rule, op) {
		return false
	}

	authorID, found := a.resolveAuthor(ectx)
	switch rule {
	case RuleAuthor:
		if !found {
			return evalMembership(op, ParseMultiValue(value), func(string) bool { return false })
		}
		return evalMembership(op, ParseMultiValue(value), func(v string) bool {
			id, err := strconv.ParseInt(v, 10, 64)
			return err == nil && id == authorID
		})
	case RuleAuthorField:
		packed := ParsePackedField(value)
		if packed.Field == "" {
			return false
		}
		var current any
		var ok bool
		if found {
			current, ok = ectx.Sources.userMeta(authorID, packed.Field)
		}
		return EvalKeyValue(op, current, ok, packed.Value)
	default:
		return false
	}
}

func (a *authorEvaluator) resolveAuthor(ectx *EvaluationContext) (int64, bool) {
	if item := ectx.ItemID(); item != 0 {
		if id, ok := ectx.Sources.author(item); ok {
			return id, true
		}
	}
	if ectx.Query.AuthorID != 0 {
		return ectx.Query.AuthorID, true
	}
	return 0, false
}
