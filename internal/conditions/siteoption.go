package conditions

// Site option category: key-value checks against process-wide options.
const RuleSiteOption = "option"

type siteOptionEvaluator struct {
	baseEvaluator
}

func newSiteOptionEvaluator() Evaluator {
	return &siteOptionEvaluator{baseEvaluator{
		declared: keyValueOperators,
		rules:    []string{RuleSiteOption},
		meta: map[string]RuleMetadata{
			RuleSiteOption: {NeedsValue: true, ValueType: ValueCustomField},
		},
	}}
}

func (s *siteOptionEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if rule != RuleSiteOption || !operatorAllowed(s, rule, op) {
		return false
	}

	packed := ParsePackedField(value)
	if packed.Field == "" {
		return false
	}
	current, found := ectx.Sources.option(packed.Field)
	return EvalKeyValue(op, current, found, packed.Value)
}
