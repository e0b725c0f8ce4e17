package conditions

// Query parameter category: key-value checks against the request's query
// string.
const RuleQueryParam = "query_param"

type queryParamEvaluator struct {
	baseEvaluator
}

func newQueryParamEvaluator() Evaluator {
	return &queryParamEvaluator{baseEvaluator{
		declared: keyValueOperators,
		rules:    []string{RuleQueryParam},
		meta: map[string]RuleMetadata{
			RuleQueryParam: {NeedsValue: true, ValueType: ValueCustomField},
		},
	}}
}

func (q *queryParamEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if rule != RuleQueryParam || !operatorAllowed(q, rule, op) {
		return false
	}

	packed := ParsePackedField(value)
	if packed.Field == "" {
		return false
	}
	if ectx.Signals.QueryParams == nil || !ectx.Signals.QueryParams.Has(packed.Field) {
		return EvalKeyValue(op, nil, false, packed.Value)
	}
	current := ectx.Signals.QueryParams.Get(packed.Field)
	return EvalKeyValue(op, current, true, packed.Value)
}
