package conditions

// Referrer category: string checks against the allow-listed Referer header.
const RuleReferrer = "general:referrer"

type referrerEvaluator struct {
	baseEvaluator
}

func newReferrerEvaluator() Evaluator {
	return &referrerEvaluator{baseEvaluator{
		declared: keyValueOperators,
		rules:    []string{RuleReferrer},
		meta: map[string]RuleMetadata{
			RuleReferrer: {NeedsValue: true, ValueType: ValueText},
		},
	}}
}

func (r *referrerEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if rule != RuleReferrer || !operatorAllowed(r, rule, op) {
		return false
	}

	referrer := ectx.header("Referer")
	want, _ := scalarString(value)
	return EvalKeyValue(op, referrer, referrer != "", sanitizeText(want))
}
